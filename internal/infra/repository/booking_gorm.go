package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/memberx/deals-api/internal/domain/booking"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

func (r *BookingGormRepository) GetSlot(
	ctx context.Context,
	slotID uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := r.db.WithContext(ctx).First(&slot, slotID).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// --------------------------------------------------
// Booking (reserve)
// --------------------------------------------------

func (r *BookingGormRepository) ReferenceExists(
	ctx context.Context,
	ref string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("booking_ref = ?", ref).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// CreateConfirmed is the one write in the system where a race would cause
// real harm: the capacity check and increment run as a single conditional
// UPDATE, never a read-compute-write pair.
func (r *BookingGormRepository) CreateConfirmed(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.TimeSlot{}).
			Where(
				"id = ? AND blocked = false AND booked + ? <= capacity",
				b.SlotID, b.Quantity,
			).
			UpdateColumn("booked", gorm.Expr("booked + ?", b.Quantity))

		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			// no row matched: distinguish a missing/blocked slot from a
			// full one for the caller's error message
			var slot models.TimeSlot
			err := tx.First(&slot, b.SlotID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && slot.Blocked) {
				return domain.ErrSlotUnavailable
			}
			if err != nil {
				return err
			}
			return domain.ErrCapacityExceeded
		}

		return tx.Create(b).Error
	})
}

// --------------------------------------------------
// Booking (state change)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	bookingID uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, bookingID).Error; err != nil {
		return nil, err
	}

	return &b, nil
}

// CancelWithRelease flips the booking to CANCELLED and gives its quantity
// back to the slot. The status flip is conditional on the row still being
// cancellable, so two racing cancels release the capacity exactly once; the
// loser sees invalid_state, same as a cancel of an already-final booking.
func (r *BookingGormRepository) CancelWithRelease(
	ctx context.Context,
	b *models.Booking,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		res := tx.Model(&models.Booking{}).
			Where(
				"id = ? AND status IN ?",
				b.ID,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
			).
			Updates(map[string]any{
				"status":       string(domain.StatusCancelled),
				"cancelled_at": b.CancelledAt,
			})

		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return httperr.ErrBusiness("invalid_state")
		}

		// the booked >= quantity guard keeps the counter from ever going
		// negative, whatever state the row is in
		return tx.Model(&models.TimeSlot{}).
			Where("id = ? AND booked >= ?", b.SlotID, b.Quantity).
			UpdateColumn("booked", gorm.Expr("booked - ?", b.Quantity)).
			Error
	})
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
