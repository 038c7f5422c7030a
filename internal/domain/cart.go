package domain

import "time"

// Cart is owned 1:1 by a user and created lazily on first access. Item prices
// are snapshots taken when the item was added, not live catalog prices.
type Cart struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CartID    uint    `gorm:"index:idx_cart_product,unique;not null" json:"-"`
	ProductID uint    `gorm:"index:idx_cart_product,unique;not null" json:"product_id"`
	Name      string  `gorm:"size:256;not null" json:"name"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	Image     string  `gorm:"size:512;not null" json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
}

// Item returns the line for the given product, or nil.
func (c *Cart) Item(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}
