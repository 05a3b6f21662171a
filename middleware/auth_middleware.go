package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/foodgram-api/logger"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/services"
	"github.com/gin-gonic/gin"
)

// UserKey is the gin context key holding the authenticated *models.User
const UserKey = "user"

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.User, error)
}

// AuthMiddleware identifies the requester from the Authorization header.
// Requests without the header continue anonymously; a header that does not
// resolve to an active user is rejected with 401. Lookup failures are 500s.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		token, ok := parseAuthorization(header)
		if !ok {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, services.ErrUnauthenticated) {
			logger.WithError(err).WithField("path", c.Request.URL.Path).Debug("token rejected")
			abortUnauthorized(c, "Invalid or expired token")
			return
		}
		if err != nil {
			_ = c.Error(err)
			logger.WithError(err).WithField("path", c.Request.URL.Path).Error("authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Internal server error",
			})
			return
		}

		c.Set(UserKey, &user)
		c.Next()
	}
}

// RequireAuth rejects anonymous requests. Use after AuthMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abortUnauthorized(c, "Authentication required")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, nil for anonymous requests
func CurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*models.User)
	return user
}

// parseAuthorization accepts "Bearer <jwt>" and "Token <jwt>"
func parseAuthorization(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	return token, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "error",
		"message": message,
	})
}
