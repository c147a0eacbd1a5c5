package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/memberx/deals-api/internal/domain/voucher"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
	ucvoucher "github.com/memberx/deals-api/internal/usecase/voucher"
)

// RedeemHandler is the counter-side voucher flow: staff at the venue paste
// or scan a code and consume it exactly once.
type RedeemHandler struct {
	db     *gorm.DB
	redeem *ucvoucher.Redeem
}

func NewRedeemHandler(db *gorm.DB, redeem *ucvoucher.Redeem) *RedeemHandler {
	return &RedeemHandler{db: db, redeem: redeem}
}

type RedeemRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *RedeemHandler) Redeem(c *gin.Context) {
	var req RedeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A voucher code is required.")
		return
	}

	staffID := c.MustGet(middleware.ContextUserID).(uint)
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	v, err := h.redeem.Execute(c.Request.Context(), code, staffID)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "voucher_not_found"):
			httperr.NotFound(c, "voucher_not_found", "No voucher matches this code.")
		case httperr.IsBusiness(err, "already_redeemed"):
			httperr.Conflict(c, "already_redeemed", "This voucher was already redeemed.")
		case httperr.IsBusiness(err, "voucher_expired"):
			httperr.Conflict(c, "voucher_expired", "This voucher has expired.")
		case httperr.IsBusiness(err, "voucher_cancelled"):
			httperr.Conflict(c, "voucher_cancelled", "This voucher was cancelled.")
		default:
			httperr.Internal(c, "redeem_failed", "Redemption failed, try again.")
		}
		return
	}

	httpresp.OK(c, v)
}

// Check is the dry-run variant: validates the code without consuming it, for
// the confirmation screen before the counter commits.
func (h *RedeemHandler) Check(c *gin.Context) {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var v models.Voucher
	if err := h.db.Preload("Order").Where("code = ?", code).First(&v).Error; err != nil {
		httperr.NotFound(c, "voucher_not_found", "No voucher matches this code.")
		return
	}

	httpresp.OK(c, gin.H{
		"voucher":    v,
		"redeemable": domain.Redeemable(&v, time.Now()) == nil,
	})
}

// ListAttempts returns the recent redemption attempt trail, newest first.
// Every redeem call leaves a row here, successful or not.
func (h *RedeemHandler) ListAttempts(c *gin.Context) {
	offset, limit := pagination(c)

	q := h.db.Model(&models.RedemptionAttempt{})
	if code := c.Query("code"); code != "" {
		q = q.Where("code = ?", strings.ToUpper(strings.TrimSpace(code)))
	}

	var attempts []models.RedemptionAttempt
	if err := q.Order("created_at desc").
		Offset(offset).Limit(limit).Find(&attempts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_attempts", "Could not load attempts.")
		return
	}

	httpresp.List(c, attempts)
}

// ListByOrder lists an order's vouchers for the support view.
func (h *RedeemHandler) ListByOrder(c *gin.Context) {
	orderID, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid order id.")
		return
	}

	var vouchers []models.Voucher
	if err := h.db.Where("order_id = ?", orderID).
		Order("created_at asc").Find(&vouchers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_vouchers", "Could not load vouchers.")
		return
	}

	httpresp.List(c, vouchers)
}
