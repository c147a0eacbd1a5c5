package models

import "time"

// RedemptionAttempt is the append-only audit record of one redeem call.
// VoucherID is nil when the presented code matched nothing.
type RedemptionAttempt struct {
	ID uint `gorm:"primaryKey" json:"id"`

	VoucherID *uint `gorm:"index" json:"voucher_id"`

	Code    string `gorm:"size:20;index" json:"code"`
	StaffID uint   `json:"staff_id"`

	Success bool   `json:"success"`
	Reason  string `gorm:"size:50" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
