package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
)

// SlotHandler is the partner/staff view over generated slots: listing them
// with their load, and blocking/unblocking individual slots.
type SlotHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewSlotHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *SlotHandler {
	return &SlotHandler{db: db, audit: dispatcher}
}

func (h *SlotHandler) ListByRule(c *gin.Context) {
	ruleID, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid rule id.")
		return
	}

	var rule models.SlotRule
	if err := h.db.First(&rule, ruleID).Error; err != nil {
		httperr.NotFound(c, "rule_not_found", "Rule not found.")
		return
	}
	if _, ok := scopeListingToVendor(c, h.db, rule.ListingID); !ok {
		httperr.NotFound(c, "rule_not_found", "Rule not found.")
		return
	}

	q := h.db.Where("rule_id = ?", ruleID)
	if from := c.Query("from"); from != "" {
		q = q.Where("starts_at >= ?", from)
	}
	if to := c.Query("to"); to != "" {
		q = q.Where("starts_at < ?", to)
	}

	var slots []models.TimeSlot
	if err := q.Order("starts_at asc").Find(&slots).Error; err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not load slots.")
		return
	}

	httpresp.List(c, slots)
}

// Block stops a slot from taking new bookings. Existing bookings stay as
// they are; support cancels them individually when needed.
func (h *SlotHandler) Block(c *gin.Context) {
	h.setBlocked(c, true, "slot_blocked")
}

func (h *SlotHandler) Unblock(c *gin.Context) {
	h.setBlocked(c, false, "slot_unblocked")
}

func (h *SlotHandler) setBlocked(c *gin.Context, blocked bool, action string) {
	slot, ok := h.scopedSlot(c)
	if !ok {
		return
	}

	if slot.Blocked == blocked {
		httpresp.OK(c, slot)
		return
	}

	if !blocked && slot.EndsAt.Before(time.Now()) {
		httperr.Conflict(c, "slot_passed", "Cannot unblock a past slot.")
		return
	}

	if err := h.db.Model(slot).Update("blocked", blocked).Error; err != nil {
		httperr.Internal(c, "failed_to_update_slot", "Could not update slot.")
		return
	}
	slot.Blocked = blocked

	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "time_slot",
		EntityID: &slot.ID,
	})

	httpresp.OK(c, slot)
}

func (h *SlotHandler) scopedSlot(c *gin.Context) (*models.TimeSlot, bool) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid slot id.")
		return nil, false
	}

	var slot models.TimeSlot
	if err := h.db.Preload("Rule").First(&slot, id).Error; err != nil {
		httperr.NotFound(c, "slot_not_found", "Slot not found.")
		return nil, false
	}

	if _, ok := scopeListingToVendor(c, h.db, slot.Rule.ListingID); !ok {
		httperr.NotFound(c, "slot_not_found", "Slot not found.")
		return nil, false
	}

	return &slot, true
}
