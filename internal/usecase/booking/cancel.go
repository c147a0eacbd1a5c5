package booking

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/booking"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type Cancel struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancel(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Cancel {
	return &Cancel{
		repo:  repo,
		audit: audit,
	}
}

// Execute moves a booking to CANCELLED and releases its reserved quantity
// back to the slot as part of the same transition.
func (uc *Cancel) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Cancel(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.CancelWithRelease(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
