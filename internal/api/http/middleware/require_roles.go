package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adelaidehub/studyhub-server/internal/model"
)

// RequireRoles rejects authenticated callers whose role is not in the
// allow-set. It must run after Authenticate.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := UserFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "authorization token required",
			})
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "insufficient permissions",
		})
	}
}
