package repositories

import (
	"context"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
)

// ShoppingList sums the ingredient amounts of every recipe in the user's cart,
// one row per (name, unit), ordered by name then unit.
func (r *RecipeRepository) ShoppingList(ctx context.Context, userID uint) ([]dto.ShoppingListItem, error) {
	var items []dto.ShoppingListItem

	err := r.db.WithContext(ctx).
		Model(&models.IngredientAmount{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(ingredient_amounts.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = ingredient_amounts.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = ingredient_amounts.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Order("ingredients.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
