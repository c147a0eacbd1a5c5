package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/memberx/deals-api/internal/rbac"
)

// RequirePermission gates a route on the static role -> permission table.
// Must run after AuthMiddleware.
func RequirePermission(perm rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.MustGet(ContextUserRole).(string)

		if !rbac.HasPermission(rbac.Role(role), perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "forbidden", "message": "Not allowed."},
			})
			return
		}

		c.Next()
	}
}
