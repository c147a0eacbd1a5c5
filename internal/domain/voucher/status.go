package voucher

import (
	"time"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusRedeemed  Status = "REDEEMED"
	StatusExpired   Status = "EXPIRED"
	StatusCancelled Status = "CANCELLED"
)

var (
	ErrNotFound        = httperr.ErrBusiness("voucher_not_found")
	ErrAlreadyRedeemed = httperr.ErrBusiness("already_redeemed")
	ErrExpired         = httperr.ErrBusiness("voucher_expired")
	ErrCancelled       = httperr.ErrBusiness("voucher_cancelled")
	ErrAlreadyIssued   = httperr.ErrBusiness("already_issued")
)

// FailureReason maps a redemption error to the reason recorded on the
// attempt row.
func FailureReason(err error) string {
	switch {
	case httperr.IsBusiness(err, "voucher_not_found"):
		return "not_found"
	case httperr.IsBusiness(err, "already_redeemed"):
		return "already_redeemed"
	case httperr.IsBusiness(err, "voucher_expired"):
		return "expired"
	case httperr.IsBusiness(err, "voucher_cancelled"):
		return "cancelled"
	default:
		return "error"
	}
}

// Redeemable classifies whether the voucher can be consumed right now.
// Status checks come before the window check so a redeemed-then-expired
// voucher still reports already_redeemed.
func Redeemable(v *models.Voucher, now time.Time) error {
	switch Status(v.Status) {
	case StatusRedeemed:
		return ErrAlreadyRedeemed
	case StatusCancelled:
		return ErrCancelled
	case StatusExpired:
		return ErrExpired
	}

	if now.Before(v.ValidFrom) || now.After(v.ValidUntil) {
		return ErrExpired
	}

	return nil
}
