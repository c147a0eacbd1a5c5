package handlers

import (
	"encoding/json"
	"io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	"github.com/memberx/deals-api/internal/config"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/models"
	"github.com/memberx/deals-api/internal/payments"
	ucbooking "github.com/memberx/deals-api/internal/usecase/booking"
	ucvoucher "github.com/memberx/deals-api/internal/usecase/voucher"
)

// WebhookHandler fulfills orders off Tap charge notifications. Tap delivers
// at least once, so everything past the payment record is gated on the
// voucher batch claim inside the issue use case: a replayed event confirms
// nothing twice, books nothing twice and mints nothing twice.
type WebhookHandler struct {
	db      *gorm.DB
	config  *config.Config
	issue   *ucvoucher.Issue
	reserve *ucbooking.Reserve
	audit   *audit.Dispatcher
}

func NewWebhookHandler(
	db *gorm.DB,
	cfg *config.Config,
	issue *ucvoucher.Issue,
	reserve *ucbooking.Reserve,
	dispatcher *audit.Dispatcher,
) *WebhookHandler {
	return &WebhookHandler{
		db:      db,
		config:  cfg,
		issue:   issue,
		reserve: reserve,
		audit:   dispatcher,
	}
}

func (h *WebhookHandler) HandleTap(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "Could not read request body.")
		return
	}

	if !payments.VerifySignature(h.config.TapWebhookSecret, body, c.GetHeader("x-tap-signature")) {
		httperr.Unauthorized(c, "invalid_signature", "Webhook signature mismatch.")
		return
	}

	var event payments.Event
	if err := json.Unmarshal(body, &event); err != nil {
		httperr.BadRequest(c, "invalid_payload", "Could not parse event.")
		return
	}

	var order models.Order
	if err := h.db.Preload("Items").
		Where("order_number = ?", event.Reference.Order).
		First(&order).Error; err != nil {
		httperr.NotFound(c, "order_not_found", "No order matches the event reference.")
		return
	}

	// Non-capture statuses (declines, refund notifications) leave a FAILED
	// payment row and nothing else; returning non-2xx would only make Tap
	// retry them.
	if !event.Captured() {
		h.recordPayment(&order, &event, "FAILED")
		httpresp.OK(c, gin.H{"ignored": true})
		return
	}

	h.recordPayment(&order, &event, "COMPLETED")

	if order.Status != "CONFIRMED" {
		now := time.Now()
		order.Status = "CONFIRMED"
		order.ConfirmedAt = &now
		if err := h.db.Model(&order).
			Updates(map[string]any{"status": "CONFIRMED", "confirmed_at": now}).Error; err != nil {
			httperr.Internal(c, "failed_to_confirm_order", "Order confirmation failed.")
			return
		}
	}

	vouchers, fresh, err := h.issue.Execute(c.Request.Context(), order.ID, event.ID)
	if err != nil {
		code := httperr.BusinessCode(err)
		if code == "" {
			code = "fulfillment_failed"
		}
		httperr.Internal(c, code, "Voucher issuance failed.")
		return
	}

	var bookings []models.Booking
	if fresh {
		bookings = h.reserveSlots(c, &order)
	}

	httpresp.OK(c, gin.H{
		"order_number": order.OrderNumber,
		"replay":       !fresh,
		"vouchers":     len(vouchers),
		"bookings":     len(bookings),
	})
}

// recordPayment upserts the charge by transaction id, so a replayed event
// never inserts a second payment row.
func (h *WebhookHandler) recordPayment(order *models.Order, event *payments.Event, status string) {
	payment := models.Payment{
		OrderID:       order.ID,
		Provider:      "TAP",
		TransactionID: event.ID,
		Status:        status,
		Amount:        event.AmountMajor(),
		Currency:      event.Currency,
	}
	if status == "COMPLETED" {
		now := time.Now()
		payment.CompletedAt = &now
	}

	err := h.db.
		Where("transaction_id = ?", event.ID).
		FirstOrCreate(&payment).Error
	if err != nil {
		log.Printf("payment record failed for order %s: %v", order.OrderNumber, err)
	}
}

// reserveSlots books every slot-bearing item of a freshly fulfilled order.
// A failed reservation (capacity raced away between checkout and capture) is
// logged and audited for support follow-up; the captured payment and the
// other items still go through.
func (h *WebhookHandler) reserveSlots(c *gin.Context, order *models.Order) []models.Booking {
	var bookings []models.Booking

	for _, item := range order.Items {
		if item.SlotID == nil {
			continue
		}

		b, err := h.reserve.Execute(c.Request.Context(), ucbooking.ReserveInput{
			SlotID:        *item.SlotID,
			Quantity:      item.Quantity,
			OrderID:       order.ID,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			CustomerPhone: order.CustomerPhone,
		})
		if err != nil {
			log.Printf("reservation failed for order %s slot %d: %v",
				order.OrderNumber, *item.SlotID, err)

			h.audit.Dispatch(audit.Event{
				Action:   "booking_failed",
				Entity:   "order",
				EntityID: &order.ID,
				Metadata: map[string]any{
					"slot_id": *item.SlotID,
					"reason":  httperr.BusinessCode(err),
				},
			})
			continue
		}

		bookings = append(bookings, *b)
	}

	return bookings
}
