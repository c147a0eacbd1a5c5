package booking

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/booking"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type ReserveInput struct {
	SlotID   uint
	Quantity int
	OrderID  uint

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// ======================================================
// USE CASE
// ======================================================

type Reserve struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReserve(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Reserve {
	return &Reserve{
		repo:  repo,
		audit: audit,
	}
}

const maxRefAttempts = 5

// ======================================================
// EXECUTE
// ======================================================

// Execute reserves quantity units of the slot's capacity for the order. The
// capacity check and increment happen as one conditional update inside the
// repository; a full or blocked slot fails the whole call, quantity is never
// partially reserved and the caller must not retry automatically.
func (uc *Reserve) Execute(
	ctx context.Context,
	in ReserveInput,
) (*models.Booking, error) {

	if in.Quantity < 1 {
		return nil, httperr.ErrBusiness("invalid_quantity")
	}

	ref, err := uc.newReference(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &models.Booking{
		BookingRef: ref,
		OrderID:    in.OrderID,
		SlotID:     in.SlotID,
		Status:     string(domain.StatusConfirmed),
		Quantity:   in.Quantity,

		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,

		ConfirmedAt: &now,
	}

	if err := uc.repo.CreateConfirmed(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"ref":      b.BookingRef,
			"slot_id":  b.SlotID,
			"quantity": b.Quantity,
		},
	})

	return b, nil
}

func (uc *Reserve) newReference(ctx context.Context) (string, error) {
	for i := 0; i < maxRefAttempts; i++ {
		ref := domain.NewReference()

		exists, err := uc.repo.ReferenceExists(ctx, ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}

	return "", httperr.ErrBusiness("reference_exhausted")
}
