package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
)

// Shopping list document details
const (
	ShoppingListHeader      = "Список ингредиентов:"
	ShoppingListFilename    = "ingredients_to_buy.txt"
	ShoppingListContentType = "text/plain; charset=UTF-8"
)

// ShoppingListService aggregates the ingredients of a user's cart
type ShoppingListService struct {
	recipeRepo *repositories.RecipeRepository
	metrics    *metrics.Metrics
}

// NewShoppingListService creates a new shopping list service instance
func NewShoppingListService(recipeRepo *repositories.RecipeRepository, m *metrics.Metrics) *ShoppingListService {
	return &ShoppingListService{recipeRepo: recipeRepo, metrics: m}
}

// Build returns the rendered shopping list of actor
func (s *ShoppingListService) Build(ctx context.Context, actor *models.User) (string, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return "", err
	}

	items, err := s.recipeRepo.ShoppingList(ctx, actor.ID)
	if err != nil {
		return "", fmt.Errorf("aggregate shopping list: %w", err)
	}
	if s.metrics != nil {
		s.metrics.ShoppingListDownloads.Inc()
	}
	return RenderShoppingList(items), nil
}

// RenderShoppingList formats aggregated items, one "name (unit) - total" line each
func RenderShoppingList(items []dto.ShoppingListItem) string {
	var b strings.Builder
	b.WriteString(ShoppingListHeader)
	b.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.MeasurementUnit, item.TotalAmount)
	}
	return b.String()
}
