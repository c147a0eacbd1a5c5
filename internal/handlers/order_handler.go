package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/models"
)

// OrderHandler covers guest checkout and staff order views. Checkout only
// creates a PENDING order; confirmation, bookings and vouchers all happen in
// the payment webhook once Tap reports the charge captured.
type OrderHandler struct {
	db *gorm.DB
}

func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

type checkoutItem struct {
	ListingID uint  `json:"listing_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
	SlotID    *uint `json:"slot_id"`
}

type CheckoutRequest struct {
	CustomerName  string         `json:"customer_name" binding:"required"`
	CustomerEmail string         `json:"customer_email" binding:"required,email"`
	CustomerPhone string         `json:"customer_phone"`
	Items         []checkoutItem `json:"items" binding:"required,min=1,dive"`
}

const maxOrderNumberAttempts = 5

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid checkout data.")
		return
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))

	for _, in := range req.Items {
		var listing models.Listing
		err := h.db.
			Where("id = ? AND status = ? AND is_active = ?", in.ListingID, "LIVE", true).
			First(&listing).Error
		if err != nil {
			httperr.BadRequest(c, "listing_not_available", "One of the deals is no longer available.")
			return
		}

		if listing.RequiresSlot {
			if in.SlotID == nil {
				httperr.BadRequest(c, "slot_required", "This deal requires picking a time slot.")
				return
			}
			// Advisory check only; the reservation at capture time is the
			// authoritative one.
			if !h.slotLooksBookable(*in.SlotID, listing.ID, in.Quantity) {
				httperr.BadRequest(c, "slot_unavailable", "The chosen time slot is not available.")
				return
			}
		}

		items = append(items, models.OrderItem{
			ListingID: listing.ID,
			Quantity:  in.Quantity,
			UnitPrice: listing.PriceSale,
			SlotID:    in.SlotID,
		})
		total += listing.PriceSale * float64(in.Quantity)
	}

	order := models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        "PENDING",
		TotalAmount:   total,
		Currency:      "SAR",
		Items:         items,
	}

	var err error
	for i := 0; i < maxOrderNumberAttempts; i++ {
		order.OrderNumber = newOrderNumber()
		if err = h.db.Create(&order).Error; err == nil {
			break
		}
	}
	if err != nil {
		httperr.Internal(c, "failed_to_create_order", "Checkout failed.")
		return
	}

	httpresp.Created(c, order)
}

func (h *OrderHandler) slotLooksBookable(slotID, listingID uint, quantity int) bool {
	var slot models.TimeSlot
	err := h.db.
		Joins("JOIN slot_rules ON slot_rules.id = time_slots.rule_id").
		Where("time_slots.id = ? AND slot_rules.listing_id = ?", slotID, listingID).
		First(&slot).Error
	if err != nil {
		return false
	}

	return !slot.Blocked &&
		slot.StartsAt.After(time.Now()) &&
		slot.Remaining() >= quantity
}

// GetByNumber is the public order-status lookup used by the thank-you page.
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	var order models.Order
	err := h.db.
		Preload("Items.Listing").
		Where("order_number = ?", c.Param("number")).
		First(&order).Error
	if err != nil {
		httperr.NotFound(c, "order_not_found", "Order not found.")
		return
	}

	httpresp.OK(c, order)
}

// ListOrders is the staff view, newest first.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	offset, limit := pagination(c)

	q := h.db.Model(&models.Order{}).Preload("Items")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var orders []models.Order
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		httperr.Internal(c, "failed_to_list_orders", "Could not load orders.")
		return
	}

	httpresp.List(c, orders)
}
