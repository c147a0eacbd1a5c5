package booking

import (
	"time"

	"github.com/memberx/deals-api/internal/models"
)

// Domain actions mutate the entity after validating the transition; the
// repository persists the result.

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}

func Complete(b *models.Booking, now time.Time) error {
	if err := CanComplete(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCompleted)
	b.CompletedAt = &now
	return nil
}

func MarkNoShow(b *models.Booking) error {
	if err := CanMarkNoShow(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusNoShow)
	return nil
}
