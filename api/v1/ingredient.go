package v1

import (
	"net/http"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/middleware"
	"github.com/foodgram-api/services"
	"github.com/gin-gonic/gin"
)

// IngredientController handles ingredient endpoints
type IngredientController struct {
	ingredientService *services.IngredientService
}

// NewIngredientController creates a new ingredient controller
func NewIngredientController(ingredientService *services.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

// RegisterRoutes registers ingredient routes; writes are staff only
func (ic *IngredientController) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", ic.ListIngredients)
		ingredients.GET("/:id", ic.GetIngredient)
		ingredients.POST("", middleware.StaffMiddleware(), ic.CreateIngredient)
		ingredients.PATCH("/:id", middleware.StaffMiddleware(), ic.UpdateIngredient)
		ingredients.DELETE("/:id", middleware.StaffMiddleware(), ic.DeleteIngredient)
	}
}

// ListIngredients searches ingredients by the name query parameter
func (ic *IngredientController) ListIngredients(c *gin.Context) {
	ingredients, err := ic.ingredientService.Search(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, ingredients)
}

// GetIngredient returns an ingredient by ID
func (ic *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	ingredient, err := ic.ingredientService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, ingredient)
}

// CreateIngredient adds an ingredient
func (ic *IngredientController) CreateIngredient(c *gin.Context) {
	var req dto.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := ic.ingredientService.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, ingredient)
}

// UpdateIngredient changes an ingredient
func (ic *IngredientController) UpdateIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.IngredientUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	ingredient, err := ic.ingredientService.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, ingredient)
}

// DeleteIngredient removes an ingredient that no recipe uses
func (ic *IngredientController) DeleteIngredient(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := ic.ingredientService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
