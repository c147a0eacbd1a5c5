package voucher

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/voucher"
	"github.com/memberx/deals-api/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type Redeem struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRedeem(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Redeem {
	return &Redeem{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute validates the presented code and consumes it. Every call appends
// exactly one RedemptionAttempt row, including unknown codes; the ACTIVE ->
// REDEEMED transition is a single conditional update, so two concurrent
// calls on the same code produce one success and one already_redeemed.
func (uc *Redeem) Execute(
	ctx context.Context,
	code string,
	staffID uint,
) (*models.Voucher, error) {

	now := time.Now()

	v, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.recordAttempt(ctx, nil, code, staffID, false, "not_found")
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := domain.Redeemable(v, now); err != nil {
		uc.recordAttempt(ctx, &v.ID, code, staffID, false, domain.FailureReason(err))
		return nil, err
	}

	won, err := uc.repo.MarkRedeemed(ctx, v.ID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// lost the race against a concurrent redeem
		uc.recordAttempt(ctx, &v.ID, code, staffID, false, "already_redeemed")
		return nil, domain.ErrAlreadyRedeemed
	}

	uc.recordAttempt(ctx, &v.ID, code, staffID, true, "")

	v.Status = string(domain.StatusRedeemed)
	v.RedeemedAt = &now

	uc.audit.Dispatch(audit.Event{
		UserID:   &staffID,
		Action:   "voucher_redeemed",
		Entity:   "voucher",
		EntityID: &v.ID,
	})

	return v, nil
}

func (uc *Redeem) recordAttempt(
	ctx context.Context,
	voucherID *uint,
	code string,
	staffID uint,
	success bool,
	reason string,
) {
	a := &models.RedemptionAttempt{
		VoucherID: voucherID,
		Code:      code,
		StaffID:   staffID,
		Success:   success,
		Reason:    reason,
	}

	if err := uc.repo.RecordAttempt(ctx, a); err != nil {
		// the attempt trail is audit data; losing one row must not turn a
		// valid redemption outcome into a server error
		log.Printf("redemption attempt not recorded (code %s): %v", code, err)
	}
}
