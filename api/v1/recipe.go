package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/foodgram-api/validation"
	"github.com/gin-gonic/gin"
)

// RecipeController handles recipes, favorites, the shopping cart and its download
type RecipeController struct {
	recipeService       *services.RecipeService
	shoppingListService *services.ShoppingListService
}

// NewRecipeController creates a new recipe controller
func NewRecipeController(recipeService *services.RecipeService, shoppingListService *services.ShoppingListService) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
	}
}

// RegisterRoutes registers recipe routes
func (rc *RecipeController) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", rc.ListRecipes)
		recipes.POST("", middleware.RequireAuth(), rc.CreateRecipe)
		recipes.GET("/download_shopping_cart", middleware.RequireAuth(), rc.DownloadShoppingCart)
		recipes.GET("/:id", rc.GetRecipe)
		recipes.PATCH("/:id", middleware.RequireAuth(), rc.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireAuth(), rc.DeleteRecipe)

		recipes.POST("/:id/favorite", middleware.RequireAuth(), rc.AddFavorite)
		recipes.DELETE("/:id/favorite", middleware.RequireAuth(), rc.RemoveFavorite)
		recipes.POST("/:id/shopping_cart", middleware.RequireAuth(), rc.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", middleware.RequireAuth(), rc.RemoveFromShoppingCart)
	}
}

// ListRecipes retrieves recipes with filtering and pagination
func (rc *RecipeController) ListRecipes(c *gin.Context) {
	filter := dto.RecipeFilter{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      queryBool(c, "is_favorited"),
		IsInShoppingCart: queryBool(c, "is_in_shopping_cart"),
		Pagination:       queryPagination(c),
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondValidation(c, validation.Field("author", fmt.Sprintf(validation.MsgInvalidValue, raw)))
			return
		}
		id := uint(authorID)
		filter.AuthorID = &id
	}

	resp, err := rc.recipeService.List(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// GetRecipe retrieves a recipe by ID
func (rc *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := rc.recipeService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// CreateRecipe publishes a recipe
func (rc *RecipeController) CreateRecipe(c *gin.Context) {
	var req dto.RecipeCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := rc.recipeService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, resp)
}

// UpdateRecipe partially updates a recipe (author or staff)
func (rc *RecipeController) UpdateRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.RecipeUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := rc.recipeService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, resp)
}

// DeleteRecipe removes a recipe (author or staff)
func (rc *RecipeController) DeleteRecipe(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := rc.recipeService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddFavorite adds a recipe to the current user's favorites
func (rc *RecipeController) AddFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := rc.recipeService.AddFavorite(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, resp)
}

// RemoveFavorite removes a recipe from the current user's favorites
func (rc *RecipeController) RemoveFavorite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := rc.recipeService.RemoveFavorite(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddToShoppingCart adds a recipe to the current user's shopping cart
func (rc *RecipeController) AddToShoppingCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	resp, err := rc.recipeService.AddToShoppingCart(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, resp)
}

// RemoveFromShoppingCart removes a recipe from the current user's shopping cart
func (rc *RecipeController) RemoveFromShoppingCart(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := rc.recipeService.RemoveFromShoppingCart(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart sends the aggregated shopping list as a text attachment
func (rc *RecipeController) DownloadShoppingCart(c *gin.Context) {
	text, err := rc.shoppingListService.Build(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+services.ShoppingListFilename)
	c.Data(http.StatusOK, services.ShoppingListContentType, []byte(text))
}
