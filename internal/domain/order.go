package domain

import "time"

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// PaymentMethodCOD is the only supported payment method.
const PaymentMethodCOD = "cod"

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// Order is created once from a point-in-time reconciliation of cart and
// catalog. Items, shipping address, payment method and the computed price
// aggregates never change after creation; only lifecycle fields do.
type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index;not null" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	OrderNumber     string          `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	PaymentMethod   string          `gorm:"size:32;not null" json:"payment_method"`
	ItemsPrice      float64         `gorm:"not null" json:"items_price"`
	TaxPrice        float64         `gorm:"not null" json:"tax_price"`
	ShippingPrice   float64         `gorm:"not null" json:"shipping_price"`
	TotalPrice      float64         `gorm:"not null" json:"total_price"`
	Status          string          `gorm:"size:32;not null;default:pending" json:"status"`
	IsPaid          bool            `gorm:"not null;default:false" json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `gorm:"not null;default:false" json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	IsRefunded      bool            `gorm:"not null;default:false" json:"is_refunded"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	PaymentResult   *PaymentResult  `gorm:"embedded;embeddedPrefix:payment_" json:"payment_result,omitempty"`
	RefundResult    *RefundResult   `gorm:"embedded;embeddedPrefix:refund_" json:"refund_result,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem lines are reconstructed server-side from the catalog at creation
// time; client-supplied names, images and prices are never stored.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index;not null" json:"-"`
	ProductID uint    `gorm:"index;not null" json:"product_id"`
	Name      string  `gorm:"size:256;not null" json:"name"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Image     string  `gorm:"size:512;not null" json:"image"`
	Price     float64 `gorm:"not null" json:"price"`
}

type ShippingAddress struct {
	FirstName string `gorm:"size:128" json:"first_name"`
	LastName  string `gorm:"size:128" json:"last_name"`
	Address   string `gorm:"size:512" json:"address"`
	Apartment string `gorm:"size:128" json:"apartment,omitempty"`
	City      string `gorm:"size:128" json:"city"`
	State     string `gorm:"size:128" json:"state"`
	ZipCode   string `gorm:"size:32" json:"zip_code"`
	Country   string `gorm:"size:128" json:"country"`
	Phone     string `gorm:"size:32" json:"phone"`
}

type PaymentResult struct {
	TxID         string `gorm:"size:128" json:"id,omitempty"`
	Status       string `gorm:"size:64" json:"status,omitempty"`
	UpdateTime   string `gorm:"size:64" json:"update_time,omitempty"`
	EmailAddress string `gorm:"size:320" json:"email_address,omitempty"`
}

type RefundResult struct {
	RefID  string  `gorm:"size:128" json:"id,omitempty"`
	Status string  `gorm:"size:64" json:"status,omitempty"`
	Amount float64 `json:"amount,omitempty"`
	Reason string  `gorm:"size:256" json:"reason,omitempty"`
}
