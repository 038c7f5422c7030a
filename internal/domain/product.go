package domain

import "time"

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"size:1024" json:"description,omitempty"`
	Image       string    `gorm:"size:512" json:"image,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:256;not null" json:"name"`
	Description   string    `gorm:"size:4096" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	OriginalPrice *float64  `json:"original_price,omitempty"`
	CategoryID    uint      `gorm:"index;not null" json:"category_id"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Image         string    `gorm:"size:512;not null" json:"image"`
	Rating        float64   `gorm:"default:0" json:"rating"`
	ReviewCount   int       `gorm:"default:0" json:"review_count"`
	InStock       bool      `gorm:"default:true" json:"in_stock"`
	IsNew         bool      `gorm:"default:false" json:"is_new"`
	IsOnSale      bool      `gorm:"default:false" json:"is_on_sale"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CategoryRef identifies a category either by numeric ID or by name/slug.
// Query parameters accept both forms; resolution happens before any product
// filtering runs.
type CategoryRef struct {
	ID   uint
	Name string
}

func CategoryByID(id uint) CategoryRef       { return CategoryRef{ID: id} }
func CategoryByName(name string) CategoryRef { return CategoryRef{Name: name} }

func (r CategoryRef) IsZero() bool { return r.ID == 0 && r.Name == "" }
