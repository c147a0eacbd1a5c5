package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Human-shareable reference, distinct from the row id.
	BookingRef string `gorm:"size:20;uniqueIndex;not null" json:"booking_ref"`

	OrderID uint     `gorm:"index" json:"order_id"`
	SlotID  uint     `gorm:"index" json:"slot_id"`
	Slot    TimeSlot `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"slot"`

	// PENDING | CONFIRMED | CANCELLED | COMPLETED | NO_SHOW
	Status   string `gorm:"size:20;default:'PENDING'" json:"status"`
	Quantity int    `gorm:"not null;default:1" json:"quantity"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerEmail string `gorm:"size:100;not null" json:"customer_email"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
