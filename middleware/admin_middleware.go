package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StaffMiddleware ensures the user is a staff member.
// This middleware should be used after AuthMiddleware
func StaffMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c, "Authentication required")
			return
		}

		if !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Staff privileges required",
			})
			return
		}

		c.Next()
	}
}
