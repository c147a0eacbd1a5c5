package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
	ucbooking "github.com/memberx/deals-api/internal/usecase/booking"
)

// BookingHandler exposes booking management to partners (their own vendor's
// bookings) and support staff (all of them).
type BookingHandler struct {
	db       *gorm.DB
	cancel   *ucbooking.Cancel
	complete *ucbooking.Complete
	noShow   *ucbooking.MarkNoShow
}

func NewBookingHandler(
	db *gorm.DB,
	cancel *ucbooking.Cancel,
	complete *ucbooking.Complete,
	noShow *ucbooking.MarkNoShow,
) *BookingHandler {
	return &BookingHandler{
		db:       db,
		cancel:   cancel,
		complete: complete,
		noShow:   noShow,
	}
}

func (h *BookingHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	q := h.db.Model(&models.Booking{}).
		Preload("Slot").
		Preload("Slot.Rule")

	if vendorID, ok := middleware.VendorID(c); ok {
		q = q.Joins("JOIN time_slots ON time_slots.id = bookings.slot_id").
			Joins("JOIN slot_rules ON slot_rules.id = time_slots.rule_id").
			Joins("JOIN listings ON listings.id = slot_rules.listing_id").
			Where("listings.vendor_id = ?", vendorID)
	}

	if status := c.Query("status"); status != "" {
		q = q.Where("bookings.status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		q = q.Joins("JOIN time_slots AS ts ON ts.id = bookings.slot_id").
			Where("ts.starts_at >= ?", from)
	}

	var bookings []models.Booking
	if err := q.Order("bookings.created_at desc").
		Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not load bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// GetByRef looks a booking up by its shareable reference.
func (h *BookingHandler) GetByRef(c *gin.Context) {
	var b models.Booking
	err := h.db.
		Preload("Slot").
		Preload("Slot.Rule").
		Where("booking_ref = ?", c.Param("ref")).
		First(&b).Error
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	if !h.bookingVisible(c, &b) {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	h.mutate(c, func(id, actor uint) (*models.Booking, error) {
		return h.cancel.Execute(c.Request.Context(), id, actor)
	})
}

func (h *BookingHandler) Complete(c *gin.Context) {
	h.mutate(c, func(id, actor uint) (*models.Booking, error) {
		return h.complete.Execute(c.Request.Context(), id, actor)
	})
}

func (h *BookingHandler) MarkNoShow(c *gin.Context) {
	h.mutate(c, func(id, actor uint) (*models.Booking, error) {
		return h.noShow.Execute(c.Request.Context(), id, actor)
	})
}

func (h *BookingHandler) mutate(c *gin.Context, fn func(id, actor uint) (*models.Booking, error)) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid booking id.")
		return
	}

	var b models.Booking
	if err := h.db.First(&b, id).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}
	if !h.bookingVisible(c, &b) {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)

	updated, err := fn(id, actorID)
	if err != nil {
		switch code := httperr.BusinessCode(err); code {
		case "":
			httperr.Internal(c, "failed_to_update_booking", "Could not update booking.")
		case "booking_not_found":
			httperr.NotFound(c, code, "Booking not found.")
		case "invalid_state", "slot_not_passed":
			httperr.Conflict(c, code, "Booking is not in a state that allows this.")
		default:
			httperr.BadRequest(c, code, "Could not update booking.")
		}
		return
	}

	httpresp.OK(c, updated)
}

// bookingVisible applies vendor scoping: partners only see bookings whose
// slot belongs to one of their listings.
func (h *BookingHandler) bookingVisible(c *gin.Context, b *models.Booking) bool {
	vendorID, ok := middleware.VendorID(c)
	if !ok {
		return true
	}

	var count int64
	h.db.Model(&models.TimeSlot{}).
		Joins("JOIN slot_rules ON slot_rules.id = time_slots.rule_id").
		Joins("JOIN listings ON listings.id = slot_rules.listing_id").
		Where("time_slots.id = ? AND listings.vendor_id = ?", b.SlotID, vendorID).
		Count(&count)

	return count > 0
}
