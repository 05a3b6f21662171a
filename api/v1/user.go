package v1

import (
	"net/http"
	"strconv"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/gin-gonic/gin"
)

// UserController handles the user directory and subscriptions
type UserController struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserController creates a new user controller
func NewUserController(authService *services.AuthService, userService *services.UserService) *UserController {
	return &UserController{authService: authService, userService: userService}
}

// RegisterRoutes registers user routes
func (uc *UserController) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", uc.ListUsers)
		users.POST("", uc.Register)
		users.GET("/me", middleware.RequireAuth(), uc.Me)
		users.POST("/set_password", middleware.RequireAuth(), uc.SetPassword)
		users.GET("/subscriptions", middleware.RequireAuth(), uc.ListSubscriptions)
		users.GET("/:id", uc.GetUser)
		users.DELETE("/:id", middleware.StaffMiddleware(), uc.DeleteUser)
		users.POST("/:id/subscribe", middleware.RequireAuth(), uc.Subscribe)
		users.DELETE("/:id/subscribe", middleware.RequireAuth(), uc.Unsubscribe)
	}
}

// Register creates a new account
func (uc *UserController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := uc.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := uc.userService.Get(c.Request.Context(), middleware.CurrentUser(c), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, resp)
}

// ListUsers retrieves users with pagination
func (uc *UserController) ListUsers(c *gin.Context) {
	resp, err := uc.userService.List(c.Request.Context(), middleware.CurrentUser(c), queryPagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// GetUser retrieves a user profile
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := uc.userService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// Me returns the current user's profile
func (uc *UserController) Me(c *gin.Context) {
	resp, err := uc.userService.Me(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// SetPassword changes the current user's password
func (uc *UserController) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := uc.authService.SetPassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteUser removes an account (staff only)
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := uc.userService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscribe follows an author
func (uc *UserController) Subscribe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := uc.userService.Subscribe(c.Request.Context(), middleware.CurrentUser(c), id, queryRecipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, resp)
}

// Unsubscribe stops following an author
func (uc *UserController) Unsubscribe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := uc.userService.Unsubscribe(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions lists the authors the current user follows
func (uc *UserController) ListSubscriptions(c *gin.Context) {
	resp, err := uc.userService.Subscriptions(c.Request.Context(), middleware.CurrentUser(c), queryPagination(c), queryRecipesLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

func queryRecipesLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
