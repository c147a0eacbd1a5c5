package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	domain "github.com/memberx/deals-api/internal/domain/inventory"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
	ucinventory "github.com/memberx/deals-api/internal/usecase/inventory"
)

// SlotRuleHandler manages availability rules and triggers slot generation.
type SlotRuleHandler struct {
	db       *gorm.DB
	generate *ucinventory.GenerateSlots
	audit    *audit.Dispatcher
	loc      *time.Location
}

func NewSlotRuleHandler(
	db *gorm.DB,
	generate *ucinventory.GenerateSlots,
	dispatcher *audit.Dispatcher,
	loc *time.Location,
) *SlotRuleHandler {
	return &SlotRuleHandler{
		db:       db,
		generate: generate,
		audit:    dispatcher,
		loc:      loc,
	}
}

type SlotRuleRequest struct {
	ListingID uint `json:"listing_id" binding:"required"`

	NameAr string `json:"name_ar"`
	NameEn string `json:"name_en"`

	DaysOfWeek      string `json:"days_of_week" binding:"required"`
	StartTime       string `json:"start_time" binding:"required"`
	EndTime         string `json:"end_time" binding:"required"`
	IntervalMinutes int    `json:"interval_minutes" binding:"required,min=5"`
	Capacity        int    `json:"capacity" binding:"required,min=1"`

	EffectiveFrom  string `json:"effective_from" binding:"required"`
	EffectiveUntil string `json:"effective_until" binding:"required"`
}

func (h *SlotRuleHandler) Create(c *gin.Context) {
	var req SlotRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid rule data.")
		return
	}

	listing, ok := scopeListingToVendor(c, h.db, req.ListingID)
	if !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	if !listing.RequiresSlot {
		httperr.BadRequest(c, "listing_not_slotted", "Listing does not take time slots.")
		return
	}

	rule, err := h.buildRule(&req)
	if err != nil {
		httperr.BadRequest(c, httperr.BusinessCode(err), "Invalid rule data.")
		return
	}

	if err := h.db.Create(rule).Error; err != nil {
		httperr.Internal(c, "failed_to_create_rule", "Could not create rule.")
		return
	}

	h.dispatchAudit(c, "slot_rule_created", rule.ID)
	httpresp.Created(c, rule)
}

func (h *SlotRuleHandler) buildRule(req *SlotRuleRequest) (*models.SlotRule, error) {
	if len(domain.ParseWeekdays(req.DaysOfWeek)) == 0 {
		return nil, httperr.ErrBusiness("invalid_days_of_week")
	}

	start, ok1 := parseClock(req.StartTime)
	end, ok2 := parseClock(req.EndTime)
	if !ok1 || !ok2 || !end.After(start) {
		return nil, httperr.ErrBusiness("invalid_time_window")
	}

	from, err := parseDate(req.EffectiveFrom, h.loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_effective_from")
	}
	until, err := parseDate(req.EffectiveUntil, h.loc)
	if err != nil || until.Before(from) {
		return nil, httperr.ErrBusiness("invalid_effective_until")
	}

	return &models.SlotRule{
		ListingID: req.ListingID,
		NameAr:    req.NameAr,
		NameEn:    req.NameEn,

		DaysOfWeek:      req.DaysOfWeek,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		IntervalMinutes: req.IntervalMinutes,
		Capacity:        req.Capacity,

		EffectiveFrom:  from,
		EffectiveUntil: until,
		IsActive:       true,
	}, nil
}

func parseClock(hm string) (time.Time, bool) {
	t, err := time.Parse("15:04", hm)
	return t, err == nil
}

func (h *SlotRuleHandler) ListByListing(c *gin.Context) {
	listingID, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	if _, ok := scopeListingToVendor(c, h.db, listingID); !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	var rules []models.SlotRule
	if err := h.db.Where("listing_id = ?", listingID).
		Order("created_at asc").Find(&rules).Error; err != nil {
		httperr.Internal(c, "failed_to_list_rules", "Could not load rules.")
		return
	}

	httpresp.List(c, rules)
}

// Update rewrites the rule's template. Slots already generated keep the
// values they were minted with; only future generation runs see the change.
func (h *SlotRuleHandler) Update(c *gin.Context) {
	rule, ok := h.scopedRule(c)
	if !ok {
		return
	}

	var req SlotRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid rule data.")
		return
	}

	if req.ListingID != rule.ListingID {
		httperr.BadRequest(c, "listing_mismatch", "A rule cannot move between listings.")
		return
	}

	updated, err := h.buildRule(&req)
	if err != nil {
		httperr.BadRequest(c, httperr.BusinessCode(err), "Invalid rule data.")
		return
	}

	rule.NameAr = updated.NameAr
	rule.NameEn = updated.NameEn
	rule.DaysOfWeek = updated.DaysOfWeek
	rule.StartTime = updated.StartTime
	rule.EndTime = updated.EndTime
	rule.IntervalMinutes = updated.IntervalMinutes
	rule.Capacity = updated.Capacity
	rule.EffectiveFrom = updated.EffectiveFrom
	rule.EffectiveUntil = updated.EffectiveUntil

	if err := h.db.Save(rule).Error; err != nil {
		httperr.Internal(c, "failed_to_update_rule", "Could not update rule.")
		return
	}

	h.dispatchAudit(c, "slot_rule_updated", rule.ID)
	httpresp.OK(c, rule)
}

// Deactivate soft-disables the rule. Rules are never deleted while generated
// slots still reference them; existing slots and bookings are untouched.
func (h *SlotRuleHandler) Deactivate(c *gin.Context) {
	rule, ok := h.scopedRule(c)
	if !ok {
		return
	}

	rule.IsActive = false
	if err := h.db.Save(rule).Error; err != nil {
		httperr.Internal(c, "failed_to_update_rule", "Could not deactivate rule.")
		return
	}

	h.dispatchAudit(c, "slot_rule_deactivated", rule.ID)
	httpresp.OK(c, rule)
}

type GenerateRequest struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// Generate materializes slots for the rule over a date range. Generating
// over an already-populated range fails whole; nothing is skipped or merged.
func (h *SlotRuleHandler) Generate(c *gin.Context) {
	rule, ok := h.scopedRule(c)
	if !ok {
		return
	}

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid generation range.")
		return
	}

	from, err := parseDate(req.From, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_from", "Invalid from date.")
		return
	}
	to, err := parseDate(req.To, h.loc)
	if err != nil || to.Before(from) {
		httperr.BadRequest(c, "invalid_to", "Invalid to date.")
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(uint)

	slots, err := h.generate.Execute(c.Request.Context(), ucinventory.GenerateSlotsInput{
		RuleID:  rule.ID,
		From:    from,
		To:      to,
		ActorID: userID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateGeneration) {
			httperr.Conflict(c, "duplicate_generation", "Slots already exist in this range.")
			return
		}
		if code := httperr.BusinessCode(err); code != "" {
			httperr.BadRequest(c, code, "Could not generate slots.")
			return
		}
		httperr.Internal(c, "failed_to_generate_slots", "Could not generate slots.")
		return
	}

	httpresp.List(c, slots)
}

// scopedRule loads the rule behind :id and checks the caller's vendor owns
// the listing it belongs to.
func (h *SlotRuleHandler) scopedRule(c *gin.Context) (*models.SlotRule, bool) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid rule id.")
		return nil, false
	}

	var rule models.SlotRule
	if err := h.db.First(&rule, id).Error; err != nil {
		httperr.NotFound(c, "rule_not_found", "Rule not found.")
		return nil, false
	}

	if _, ok := scopeListingToVendor(c, h.db, rule.ListingID); !ok {
		httperr.NotFound(c, "rule_not_found", "Rule not found.")
		return nil, false
	}

	return &rule, true
}

func (h *SlotRuleHandler) dispatchAudit(c *gin.Context, action string, ruleID uint) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "slot_rule",
		EntityID: &ruleID,
	})
}
