package voucher

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/models"
)

type Repository interface {
	// GetOrder loads the order with its items.
	GetOrder(
		ctx context.Context,
		orderID uint,
	) (*models.Order, error)

	// CreateBatch writes the order's voucher batch claim and every voucher
	// in one transaction. The unique constraint on the claim's order id is
	// the idempotency gate: a second claim returns ErrAlreadyIssued. Any
	// other failure rolls the claim back with the vouchers, so a retried
	// delivery can never observe a partially issued order.
	CreateBatch(
		ctx context.Context,
		orderID uint,
		eventID string,
		vouchers []models.Voucher,
	) error

	ListByOrder(
		ctx context.Context,
		orderID uint,
	) ([]models.Voucher, error)

	CodeExists(
		ctx context.Context,
		code string,
	) (bool, error)

	// GetByCode returns ErrNotFound when no voucher matches.
	GetByCode(
		ctx context.Context,
		code string,
	) (*models.Voucher, error)

	// MarkRedeemed transitions ACTIVE -> REDEEMED as one conditional update
	// and reports whether this call won the transition.
	MarkRedeemed(
		ctx context.Context,
		voucherID uint,
		now time.Time,
	) (bool, error)

	// RecordAttempt appends the audit row; never skipped, success or not.
	RecordAttempt(
		ctx context.Context,
		a *models.RedemptionAttempt,
	) error
}
