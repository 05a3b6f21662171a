package v1

import (
	"net/http"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/services"
	"github.com/gin-gonic/gin"
)

// AuthController handles token login and logout
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new auth controller
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRoutes registers auth routes
func (ac *AuthController) RegisterRoutes(router *gin.RouterGroup) {
	token := router.Group("/auth/token")
	{
		token.POST("/login", ac.Login)
		token.POST("/logout", ac.Logout)
	}
}

// Login exchanges credentials for a token
func (ac *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := ac.authService.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// Logout is a no-op for stateless tokens; clients discard their token.
// It still requires a valid token so a stale client learns it was logged out.
func (ac *AuthController) Logout(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}
