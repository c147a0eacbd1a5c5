package booking

import (
	"context"

	"github.com/memberx/deals-api/internal/models"
)

type Repository interface {
	GetSlot(
		ctx context.Context,
		slotID uint,
	) (*models.TimeSlot, error)

	ReferenceExists(
		ctx context.Context,
		ref string,
	) (bool, error)

	// CreateConfirmed reserves the booking's quantity against its slot and
	// creates the row in one transaction. The capacity increment is a single
	// conditional update; when it matches no row the error is
	// ErrSlotUnavailable (missing or blocked) or ErrCapacityExceeded.
	CreateConfirmed(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBooking(
		ctx context.Context,
		bookingID uint,
	) (*models.Booking, error)

	// CancelWithRelease moves the booking to CANCELLED and releases its
	// quantity from the slot counter in the same transaction. The status
	// flip is a conditional update on the stored row still being PENDING or
	// CONFIRMED; a lost race against a concurrent cancel or completion
	// returns the invalid_state business error and releases nothing.
	CancelWithRelease(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error
}
