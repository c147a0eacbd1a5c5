package models

import "time"

type Voucher struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:20;uniqueIndex;not null" json:"code"`

	OrderID uint  `gorm:"index" json:"order_id"`
	Order   Order `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"order"`

	// ACTIVE | REDEEMED | EXPIRED | CANCELLED. REDEEMED and EXPIRED are
	// terminal; expiry is a status transition, never a deletion.
	Status string `gorm:"size:20;default:'ACTIVE'" json:"status"`

	ValidFrom  time.Time `json:"valid_from"`
	ValidUntil time.Time `json:"valid_until"`

	RedeemedAt *time.Time `json:"redeemed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoucherBatch is the issuance claim for one order. The unique index on
// OrderID is what makes voucher issuance idempotent under replayed payment
// webhooks: the second claim hits the constraint and issuance no-ops.
type VoucherBatch struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"uniqueIndex;not null" json:"order_id"`

	EventID string `gorm:"size:64" json:"event_id"`

	CreatedAt time.Time `json:"created_at"`
}
