package voucher

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/voucher"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/mailer"
	"github.com/memberx/deals-api/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type Issue struct {
	repo       domain.Repository
	mailer     mailer.Mailer
	audit      *audit.Dispatcher
	expiryDays int
}

func NewIssue(
	repo domain.Repository,
	m mailer.Mailer,
	audit *audit.Dispatcher,
	expiryDays int,
) *Issue {
	return &Issue{
		repo:       repo,
		mailer:     m,
		audit:      audit,
		expiryDays: expiryDays,
	}
}

const maxCodeAttempts = 5

// ======================================================
// EXECUTE
// ======================================================

// Execute mints one ACTIVE voucher per purchased unit of a confirmed order.
// The payment provider delivers capture notifications at least once, so the
// whole operation is gated on the voucher batch claim: a replay observes the
// existing claim and returns the already-issued set without minting again.
// Claim and vouchers commit in one transaction; a mid-mint failure leaves no
// claim behind, so the next delivery issues the full set.
// The bool reports whether this call won the claim; replays get false, and
// callers gate the rest of order fulfillment on it.
func (uc *Issue) Execute(
	ctx context.Context,
	orderID uint,
	eventID string,
) ([]models.Voucher, bool, error) {

	order, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, false, httperr.ErrBusiness("order_not_found")
	}

	if order.Status != "CONFIRMED" {
		return nil, false, httperr.ErrBusiness("order_not_confirmed")
	}

	now := time.Now()
	validUntil := now.AddDate(0, 0, uc.expiryDays)

	var vouchers []models.Voucher
	for _, item := range order.Items {
		for i := 0; i < item.Quantity; i++ {
			code, err := uc.newCode(ctx)
			if err != nil {
				return nil, false, err
			}

			vouchers = append(vouchers, models.Voucher{
				Code:       code,
				OrderID:    order.ID,
				Status:     string(domain.StatusActive),
				ValidFrom:  now,
				ValidUntil: validUntil,
			})
		}
	}

	if err := uc.repo.CreateBatch(ctx, order.ID, eventID, vouchers); err != nil {
		if errors.Is(err, domain.ErrAlreadyIssued) {
			existing, err := uc.repo.ListByOrder(ctx, order.ID)
			return existing, false, err
		}
		return nil, false, err
	}

	// emails go out only after the batch committed, and stay best-effort: a
	// lost email never rolls back a voucher
	for i := range vouchers {
		if err := uc.mailer.SendVoucher(order.CustomerEmail, &vouchers[i]); err != nil {
			log.Printf("voucher email failed for order %s: %v", order.OrderNumber, err)
		}
	}
	if err := uc.mailer.SendOrderConfirmation(order.CustomerEmail, order); err != nil {
		log.Printf("confirmation email failed for order %s: %v", order.OrderNumber, err)
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "vouchers_issued",
		Entity:   "order",
		EntityID: &order.ID,
		Metadata: map[string]any{
			"count":    len(vouchers),
			"event_id": eventID,
		},
	})

	return vouchers, true, nil
}

func (uc *Issue) newCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := domain.NewCode()

		exists, err := uc.repo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", httperr.ErrBusiness("code_exhausted")
}
