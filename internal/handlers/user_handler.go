package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/memberx/deals-api/internal/audit"
	"github.com/memberx/deals-api/internal/httperr"
	"github.com/memberx/deals-api/internal/httpresp"
	"github.com/memberx/deals-api/internal/middleware"
	"github.com/memberx/deals-api/internal/models"
	"github.com/memberx/deals-api/internal/rbac"
)

// UserHandler is the admin staff directory: listing accounts and assigning
// roles from the static role table.
type UserHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, dispatcher *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, audit: dispatcher}
}

func (h *UserHandler) List(c *gin.Context) {
	offset, limit := pagination(c)

	q := h.db.Model(&models.User{}).Preload("Vendor")
	if role := c.Query("role"); role != "" {
		q = q.Where("role = ?", role)
	}

	var users []models.User
	if err := q.Order("created_at desc").
		Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		httperr.Internal(c, "failed_to_list_users", "Could not load users.")
		return
	}

	httpresp.List(c, users)
}

var assignableRoles = map[rbac.Role]bool{
	rbac.RoleAdmin:         true,
	rbac.RoleContentEditor: true,
	rbac.RoleSupport:       true,
	rbac.RolePartner:       true,
	rbac.RoleUser:          true,
}

type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) SetRole(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Invalid user id.")
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "A role is required.")
		return
	}

	if !assignableRoles[rbac.Role(req.Role)] {
		httperr.BadRequest(c, "invalid_role", "Unknown role.")
		return
	}

	actorID := c.MustGet(middleware.ContextUserID).(uint)
	if actorID == id {
		httperr.Conflict(c, "cannot_change_own_role", "You cannot change your own role.")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	previous := user.Role
	user.Role = req.Role
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_user", "Could not update user.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &actorID,
		Action:   "user_role_changed",
		Entity:   "user",
		EntityID: &user.ID,
		Metadata: map[string]any{"from": previous, "to": user.Role},
	})

	httpresp.OK(c, user)
}
