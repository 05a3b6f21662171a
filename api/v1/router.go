package v1

import (
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/foodgram-api/validation"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API routes on the /api group.
// Requests are identified by AuthMiddleware; each route applies its own capability check.
func RegisterRoutes(router *gin.RouterGroup, svc *services.Services) {
	validation.Setup()

	router.Use(middleware.AuthMiddleware(svc.Auth))

	NewAuthController(svc.Auth).RegisterRoutes(router)
	NewUserController(svc.Auth, svc.Users).RegisterRoutes(router)
	NewTagController(svc.Tags).RegisterRoutes(router)
	NewIngredientController(svc.Ingredients).RegisterRoutes(router)
	NewRecipeController(svc.Recipes, svc.ShoppingList).RegisterRoutes(router)
}
