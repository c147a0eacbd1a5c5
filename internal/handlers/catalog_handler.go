package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/cache"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/models"
)

const catalogCacheTTL = 5 * time.Minute

// CatalogHandler serves the public, unauthenticated storefront: cities,
// categories, live deals and slot availability.
type CatalogHandler struct {
	db    *gorm.DB
	cache *cache.Client
}

func NewCatalogHandler(db *gorm.DB, cacheClient *cache.Client) *CatalogHandler {
	return &CatalogHandler{db: db, cache: cacheClient}
}

func (h *CatalogHandler) ListCities(c *gin.Context) {
	var cities []models.City

	key := "catalog:cities"
	if !h.cache.GetJSON(c.Request.Context(), key, &cities) {
		h.db.Where("is_active = ?", true).
			Order(`"order" asc`).
			Find(&cities)
		h.cache.SetJSON(c.Request.Context(), key, cities, catalogCacheTTL)
	}

	httpresp.List(c, cities)
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	var categories []models.Category

	key := "catalog:categories"
	if !h.cache.GetJSON(c.Request.Context(), key, &categories) {
		h.db.Where("is_active = ?", true).
			Order(`"order" asc`).
			Find(&categories)
		h.cache.SetJSON(c.Request.Context(), key, categories, catalogCacheTTL)
	}

	httpresp.List(c, categories)
}

// ListDeals returns live listings, optionally filtered by city slug,
// category slug and a bilingual title search, paged. Each filter/page
// combination is cached under its own key.
func (h *CatalogHandler) ListDeals(c *gin.Context) {
	citySlug := c.Query("city")
	categorySlug := c.Query("category")
	search := strings.TrimSpace(c.Query("q"))
	offset, limit := pagination(c)

	key := fmt.Sprintf("catalog:deals:%s:%s:%s:%d:%d",
		citySlug, categorySlug, search, offset, limit)

	var listings []models.Listing
	if h.cache.GetJSON(c.Request.Context(), key, &listings) {
		httpresp.List(c, listings)
		return
	}

	q := h.db.Model(&models.Listing{}).
		Preload("City").
		Preload("Category").
		Preload("Vendor").
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" asc`)
		}).
		Where("listings.status = ? AND listings.is_active = ?", "LIVE", true)

	if citySlug != "" {
		q = q.Joins("JOIN cities ON cities.id = listings.city_id").
			Where("cities.slug = ?", citySlug)
	}
	if categorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = listings.category_id").
			Where("categories.slug = ?", categorySlug)
	}
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("listings.title_ar ILIKE ? OR listings.title_en ILIKE ?", pattern, pattern)
	}

	if err := q.Order("listings.published_at desc").
		Offset(offset).Limit(limit).Find(&listings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_deals", "Could not load deals.")
		return
	}

	h.cache.SetJSON(c.Request.Context(), key, listings, catalogCacheTTL)
	httpresp.List(c, listings)
}

func (h *CatalogHandler) GetDeal(c *gin.Context) {
	slug := c.Param("slug")

	var listing models.Listing
	err := h.db.
		Preload("City").
		Preload("Category").
		Preload("Vendor").
		Preload("Assets", func(db *gorm.DB) *gorm.DB {
			return db.Order(`"order" asc`)
		}).
		Where("slug = ? AND status = ? AND is_active = ?", slug, "LIVE", true).
		First(&listing).Error
	if err != nil {
		httperr.NotFound(c, "deal_not_found", "Deal not found.")
		return
	}

	httpresp.OK(c, listing)
}

type availabilitySlot struct {
	ID        uint      `json:"id"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	Remaining int       `json:"remaining"`
}

// GetAvailability lists upcoming bookable slots for a deal. Blocked and full
// slots are filtered out here; the authoritative capacity check still happens
// at reservation time.
func (h *CatalogHandler) GetAvailability(c *gin.Context) {
	slug := c.Param("slug")

	var listing models.Listing
	err := h.db.
		Where("slug = ? AND status = ? AND is_active = ?", slug, "LIVE", true).
		First(&listing).Error
	if err != nil {
		httperr.NotFound(c, "deal_not_found", "Deal not found.")
		return
	}

	if !listing.RequiresSlot {
		httpresp.List(c, []availabilitySlot{})
		return
	}

	var slots []models.TimeSlot
	err = h.db.
		Joins("JOIN slot_rules ON slot_rules.id = time_slots.rule_id").
		Where("slot_rules.listing_id = ?", listing.ID).
		Where("time_slots.blocked = ?", false).
		Where("time_slots.booked < time_slots.capacity").
		Where("time_slots.starts_at > ?", time.Now()).
		Order("time_slots.starts_at asc").
		Find(&slots).Error
	if err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not load availability.")
		return
	}

	out := make([]availabilitySlot, len(slots))
	for i, s := range slots {
		out[i] = availabilitySlot{
			ID:        s.ID,
			StartsAt:  s.StartsAt,
			EndsAt:    s.EndsAt,
			Remaining: s.Remaining(),
		}
	}

	httpresp.List(c, out)
}
