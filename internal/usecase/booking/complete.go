package booking

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/booking"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type Complete struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewComplete(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *Complete {
	return &Complete{
		repo:  repo,
		audit: audit,
	}
}

func (uc *Complete) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.Complete(b, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "booking_completed",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
