package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	"github.com/memberx/deals-api/internal/cache"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
)

// ListingHandler is the partner/admin side of the catalog. Listings move
// DRAFT -> PENDING_REVIEW -> LIVE -> ENDED; partners edit and submit,
// content staff approve.
type ListingHandler struct {
	db    *gorm.DB
	cache *cache.Client
	audit *audit.Dispatcher
}

func NewListingHandler(db *gorm.DB, cacheClient *cache.Client, dispatcher *audit.Dispatcher) *ListingHandler {
	return &ListingHandler{db: db, cache: cacheClient, audit: dispatcher}
}

type ListingRequest struct {
	Slug       string `json:"slug" binding:"required"`
	CityID     uint   `json:"city_id" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`

	TitleAr string `json:"title_ar" binding:"required"`
	TitleEn string `json:"title_en" binding:"required"`
	DescAr  string `json:"desc_ar"`
	DescEn  string `json:"desc_en"`

	PriceOriginal float64 `json:"price_original" binding:"required,gt=0"`
	PriceSale     float64 `json:"price_sale" binding:"required,gt=0"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`

	BookingEnabled bool `json:"booking_enabled"`
	RequiresSlot   bool `json:"requires_slot"`
}

func (h *ListingHandler) Create(c *gin.Context) {
	vendorID, ok := middleware.VendorID(c)
	if !ok {
		httperr.Forbidden(c, "no_vendor", "Account is not linked to a vendor.")
		return
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid listing data.")
		return
	}

	if req.PriceSale >= req.PriceOriginal {
		httperr.BadRequest(c, "invalid_pricing", "Sale price must be below the original price.")
		return
	}

	listing := models.Listing{
		Slug:       strings.ToLower(strings.TrimSpace(req.Slug)),
		CityID:     req.CityID,
		CategoryID: req.CategoryID,
		VendorID:   vendorID,

		TitleAr: req.TitleAr,
		TitleEn: req.TitleEn,
		DescAr:  req.DescAr,
		DescEn:  req.DescEn,

		PriceOriginal: req.PriceOriginal,
		PriceSale:     req.PriceSale,
		DiscountPct:   discountPct(req.PriceOriginal, req.PriceSale),

		Status:   "DRAFT",
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,

		BookingEnabled: req.BookingEnabled,
		RequiresSlot:   req.RequiresSlot,
	}

	if err := h.db.Create(&listing).Error; err != nil {
		httperr.Internal(c, "failed_to_create_listing", "Could not create listing.")
		return
	}

	h.dispatchAudit(c, "listing_created", listing.ID, nil)
	httpresp.Created(c, listing)
}

func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	listing, ok := scopeListingToVendor(c, h.db, id)
	if !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	// Live deals are frozen for partners; pricing and copy changes go back
	// through review.
	if listing.Status == "LIVE" {
		if vID, isPartner := middleware.VendorID(c); isPartner && vID == listing.VendorID {
			httperr.Conflict(c, "listing_live", "Live listings cannot be edited directly.")
			return
		}
	}

	var req ListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid listing data.")
		return
	}

	if req.PriceSale >= req.PriceOriginal {
		httperr.BadRequest(c, "invalid_pricing", "Sale price must be below the original price.")
		return
	}

	listing.Slug = strings.ToLower(strings.TrimSpace(req.Slug))
	listing.CityID = req.CityID
	listing.CategoryID = req.CategoryID
	listing.TitleAr = req.TitleAr
	listing.TitleEn = req.TitleEn
	listing.DescAr = req.DescAr
	listing.DescEn = req.DescEn
	listing.PriceOriginal = req.PriceOriginal
	listing.PriceSale = req.PriceSale
	listing.DiscountPct = discountPct(req.PriceOriginal, req.PriceSale)
	listing.StartsAt = req.StartsAt
	listing.EndsAt = req.EndsAt
	listing.BookingEnabled = req.BookingEnabled
	listing.RequiresSlot = req.RequiresSlot

	if err := h.db.Save(listing).Error; err != nil {
		httperr.Internal(c, "failed_to_update_listing", "Could not update listing.")
		return
	}

	h.invalidateCatalog(c)
	h.dispatchAudit(c, "listing_updated", listing.ID, nil)
	httpresp.OK(c, listing)
}

func (h *ListingHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	q := h.db.Model(&models.Listing{}).
		Preload("City").
		Preload("Category").
		Preload("Assets")

	if vendorID, ok := middleware.VendorID(c); ok {
		q = q.Where("vendor_id = ?", vendorID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var listings []models.Listing
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_listings", "Could not load listings.")
		return
	}

	httpresp.List(c, listings)
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	listing, ok := scopeListingToVendor(c, h.db, id)
	if !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	h.db.Preload("City").Preload("Category").Preload("Assets").First(listing, listing.ID)
	httpresp.OK(c, listing)
}

// Submit moves a draft into the review queue.
func (h *ListingHandler) Submit(c *gin.Context) {
	h.transition(c, "DRAFT", "PENDING_REVIEW", "listing_submitted", "listing_not_draft")
}

// Approve publishes a reviewed listing. Content staff only.
func (h *ListingHandler) Approve(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	var listing models.Listing
	if err := h.db.First(&listing, id).Error; err != nil {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	if listing.Status != "PENDING_REVIEW" {
		httperr.Conflict(c, "listing_not_in_review", "Listing is not awaiting review.")
		return
	}

	now := time.Now()
	listing.Status = "LIVE"
	listing.PublishedAt = &now

	if err := h.db.Save(&listing).Error; err != nil {
		httperr.Internal(c, "failed_to_approve_listing", "Could not approve listing.")
		return
	}

	h.invalidateCatalog(c)
	h.dispatchAudit(c, "listing_approved", listing.ID, nil)
	httpresp.OK(c, listing)
}

// Reject sends a reviewed listing back to draft with a note for the partner.
func (h *ListingHandler) Reject(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&req)

	var listing models.Listing
	if err := h.db.First(&listing, id).Error; err != nil {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	if listing.Status != "PENDING_REVIEW" {
		httperr.Conflict(c, "listing_not_in_review", "Listing is not awaiting review.")
		return
	}

	listing.Status = "DRAFT"
	if err := h.db.Save(&listing).Error; err != nil {
		httperr.Internal(c, "failed_to_reject_listing", "Could not reject listing.")
		return
	}

	h.dispatchAudit(c, "listing_rejected", listing.ID, map[string]any{"reason": req.Reason})
	httpresp.OK(c, listing)
}

// End retires a live listing from the storefront.
func (h *ListingHandler) End(c *gin.Context) {
	h.transition(c, "LIVE", "ENDED", "listing_ended", "listing_not_live")
}

func (h *ListingHandler) transition(c *gin.Context, from, to, action, conflictCode string) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid listing id.")
		return
	}

	listing, ok := scopeListingToVendor(c, h.db, id)
	if !ok {
		httperr.NotFound(c, "listing_not_found", "Listing not found.")
		return
	}

	if listing.Status != from {
		httperr.Conflict(c, conflictCode, "Listing is not in the required state.")
		return
	}

	listing.Status = to
	if err := h.db.Save(listing).Error; err != nil {
		httperr.Internal(c, "failed_to_update_listing", "Could not update listing.")
		return
	}

	h.invalidateCatalog(c)
	h.dispatchAudit(c, action, listing.ID, nil)
	httpresp.OK(c, listing)
}

func (h *ListingHandler) invalidateCatalog(c *gin.Context) {
	h.cache.InvalidatePrefix(c.Request.Context(), "catalog:deals:")
}

func (h *ListingHandler) dispatchAudit(c *gin.Context, action string, listingID uint, meta map[string]any) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	h.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   action,
		Entity:   "listing",
		EntityID: &listingID,
		Metadata: meta,
	})
}

func discountPct(original, sale float64) int {
	if original <= 0 {
		return 0
	}
	return int((original - sale) / original * 100)
}
