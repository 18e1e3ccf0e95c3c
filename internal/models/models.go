package models

import (
	"time"
)

const (
	PaymentMethodCOD      = "COD"
	PaymentMethodMockUPI  = "MOCK_UPI"
	PaymentMethodMockCard = "MOCK_CARD"
)

const (
	PaymentStatusPending  = "PENDING"
	PaymentStatusPaid     = "PAID"
	PaymentStatusFailed   = "FAILED"
	PaymentStatusRefunded = "REFUNDED"
)

const (
	OrderStatusPending    = "PENDING"
	OrderStatusConfirmed  = "CONFIRMED"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusRefunded   = "REFUNDED"
)

type Category struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string `gorm:"not null"                  json:"name"`
	Slug        string `gorm:"uniqueIndex;not null"      json:"slug"`
	Description string `json:"description"`
	Image       string `json:"image"`
	IsActive    bool   `gorm:"not null;default:true"     json:"is_active"`

	Products []Product `json:"-"`
}

type Product struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"            json:"id"`
	Name         string    `gorm:"not null"                            json:"name"`
	Slug         string    `gorm:"uniqueIndex;not null"                json:"slug"`
	Description  string    `gorm:"not null"                            json:"description"`
	ShortDesc    string    `json:"short_desc"`
	PriceInPaise int64     `gorm:"not null"                            json:"price_in_paise"`
	Stock        int       `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	IsActive     bool      `gorm:"not null;default:true"               json:"is_active"`
	IsFeatured   bool      `gorm:"not null;default:false"              json:"is_featured"`
	Weight       float64   `json:"weight"`
	Dimensions   string    `json:"dimensions"`
	Material     string    `json:"material"`
	CareNotes    string    `json:"care_instructions"`
	CategoryID   uint      `gorm:"index;not null"                      json:"category_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Category Category       `json:"category"`
	Images   []ProductImage `gorm:"constraint:OnDelete:CASCADE"        json:"images"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint   `gorm:"index;not null"           json:"product_id"`
	URL       string `gorm:"not null"                 json:"url"`
	AltText   string `json:"alt_text"`
	IsPrimary bool   `gorm:"not null;default:false"   json:"is_primary"`
	SortOrder int    `gorm:"not null;default:0"       json:"sort_order"`
}

type Order struct {
	ID              uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber     string     `gorm:"uniqueIndex;not null"     json:"order_number"`
	CustomerName    string     `gorm:"not null"                 json:"customer_name"`
	CustomerEmail   string     `gorm:"not null"                 json:"customer_email"`
	CustomerPhone   string     `gorm:"not null"                 json:"customer_phone"`
	ShippingAddress string     `gorm:"not null"                 json:"shipping_address"`
	ShippingCity    string     `gorm:"not null"                 json:"shipping_city"`
	ShippingState   string     `json:"shipping_state"`
	ShippingPincode string     `gorm:"not null"                 json:"shipping_pincode"`
	SubtotalInPaise int64      `gorm:"not null"                 json:"subtotal_in_paise"`
	ShippingInPaise int64      `gorm:"not null"                 json:"shipping_in_paise"`
	TotalInPaise    int64      `gorm:"not null"                 json:"total_in_paise"`
	PaymentMethod   string     `gorm:"not null"                 json:"payment_method"`
	PaymentStatus   string     `gorm:"not null"                 json:"payment_status"`
	Status          string     `gorm:"not null"                 json:"status"`
	DeliveryDate    *time.Time `json:"delivery_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem captures the product price at checkout time; it is never
// recomputed from the live product afterwards.
type OrderItem struct {
	ID           uint  `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID      uint  `gorm:"index;not null"              json:"order_id"`
	ProductID    uint  `gorm:"not null"                    json:"product_id"`
	Quantity     int   `gorm:"not null;check:quantity > 0" json:"quantity"`
	PriceInPaise int64 `gorm:"not null"                    json:"price_in_paise"`

	Product Product `json:"product"`
}

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string     `gorm:"not null"                 json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         string     `gorm:"not null;default:ADMIN"   json:"role"`
	IsActive     bool       `gorm:"not null;default:true"    json:"is_active"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}
