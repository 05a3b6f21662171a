package dto

import (
	"time"

	"github.com/foodgram-api/models"
)

// IngredientAmountInput is one {id, amount} entry of a recipe payload
type IngredientAmountInput struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount" binding:"min=1"`
}

// RecipeCreateRequest represents the payload for creating a recipe
type RecipeCreateRequest struct {
	Name        string                  `json:"name" binding:"required,max=200"`
	Text        string                  `json:"text" binding:"required,max=1024"`
	CookingTime int                     `json:"cooking_time" binding:"min=1"`
	Tags        []uint                  `json:"tags" binding:"required,min=1,unique"`
	Ingredients []IngredientAmountInput `json:"ingredients" binding:"required,min=1,unique=ID,dive"`
	Image       string                  `json:"image" binding:"required"`
}

// RecipeUpdateRequest represents a partial recipe update. Nil fields are left untouched.
type RecipeUpdateRequest struct {
	Name        *string                 `json:"name" binding:"omitnil,min=1,max=200"`
	Text        *string                 `json:"text" binding:"omitnil,min=1,max=1024"`
	CookingTime *int                    `json:"cooking_time" binding:"omitnil,min=1"`
	Tags        []uint                  `json:"tags" binding:"omitnil,min=1,unique"`
	Ingredients []IngredientAmountInput `json:"ingredients" binding:"omitnil,min=1,unique=ID,dive"`
	Image       *string                 `json:"image" binding:"omitnil,min=1"`
}

// RecipeFilter represents filter criteria for recipe lists
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uint
	IsFavorited      bool
	IsInShoppingCart bool
	// ViewerID is the requesting user, 0 for anonymous requests
	ViewerID uint
	Pagination
}

// RecipeIngredientResponse is an ingredient line of a recipe
type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse represents the full recipe representation
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Name             string                     `json:"name"`
	Text             string                     `json:"text"`
	Image            string                     `json:"image"`
	CookingTime      int                        `json:"cooking_time"`
	CreatedAt        time.Time                  `json:"created_at"`
	Author           *UserResponse              `json:"author"`
	Tags             []models.Tag               `json:"tags"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
}

// RecipeShortResponse is the compact recipe representation used by toggles and subscriptions
type RecipeShortResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeShortResponse maps a recipe model to its short representation
func NewRecipeShortResponse(r models.Recipe) RecipeShortResponse {
	return RecipeShortResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}
