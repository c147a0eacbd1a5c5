package models

import "time"

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"size:40;uniqueIndex;not null" json:"order_number"`

	UserID *uint `json:"user_id"`

	// Contact snapshot taken at checkout, independent of the user profile.
	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100;not null" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	// PENDING -> CONFIRMED
	Status string `gorm:"size:20;default:'PENDING'" json:"status"`

	TotalAmount float64 `json:"total_amount"`
	Currency    string  `gorm:"size:3;default:'SAR'" json:"currency"`

	Items []OrderItem `json:"items,omitempty"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`

	ListingID uint    `json:"listing_id"`
	Listing   Listing `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"listing"`

	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
	UnitPrice float64 `json:"unit_price"`

	// Slot chosen at checkout for listings that require one.
	SlotID *uint `json:"slot_id"`

	CreatedAt time.Time `json:"created_at"`
}

type Payment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index" json:"order_id"`

	Provider      string `gorm:"size:20;default:'TAP'" json:"provider"`
	TransactionID string `gorm:"size:100;index" json:"transaction_id"`

	// COMPLETED | FAILED
	Status string `gorm:"size:20" json:"status"`

	Amount   float64 `json:"amount"`
	Currency string  `gorm:"size:3" json:"currency"`

	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
