package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.Preload("Vendor").First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Account not found.")
		return
	}

	httpresp.OK(c, user)
}
