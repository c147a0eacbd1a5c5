package booking

import (
	"context"
	"time"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/booking"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *MarkNoShow {
	return &MarkNoShow{
		repo:  repo,
		audit: audit,
	}
}

// Execute marks a CONFIRMED booking NO_SHOW. Only allowed once the slot's
// window has passed; capacity is not released, the seat was held and unused.
func (uc *MarkNoShow) Execute(
	ctx context.Context,
	bookingID uint,
	actorID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	slot, err := uc.repo.GetSlot(ctx, b.SlotID)
	if err != nil {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	if time.Now().Before(slot.EndsAt) {
		return nil, httperr.ErrBusiness("slot_not_passed")
	}

	if err := domain.MarkNoShow(b); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "booking_no_show",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}
