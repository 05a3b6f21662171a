package services

import (
	"context"
	"fmt"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
)

// Presenter shapes models into responses with the viewer-dependent flags
// is_subscribed, is_favorited and is_in_shopping_cart. Anonymous viewers see false.
type Presenter struct {
	favorites     *repositories.Relation[models.Favorite]
	carts         *repositories.Relation[models.ShoppingCart]
	subscriptions *repositories.Relation[models.Subscription]
}

// NewPresenter creates a new presenter instance
func NewPresenter(
	favorites *repositories.Relation[models.Favorite],
	carts *repositories.Relation[models.ShoppingCart],
	subscriptions *repositories.Relation[models.Subscription],
) *Presenter {
	return &Presenter{favorites: favorites, carts: carts, subscriptions: subscriptions}
}

// User presents a single user
func (p *Presenter) User(ctx context.Context, viewer *models.User, user models.User) (dto.UserResponse, error) {
	out, err := p.Users(ctx, viewer, []models.User{user})
	if err != nil {
		return dto.UserResponse{}, err
	}
	return out[0], nil
}

// Users presents users in one round trip for the subscription flags
func (p *Presenter) Users(ctx context.Context, viewer *models.User, users []models.User) ([]dto.UserResponse, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := p.subscriptions.TargetsAmong(ctx, viewerID(viewer), ids)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u, subscribed[u.ID]))
	}
	return out, nil
}

// Recipe presents a single recipe
func (p *Presenter) Recipe(ctx context.Context, viewer *models.User, recipe models.Recipe) (dto.RecipeResponse, error) {
	out, err := p.Recipes(ctx, viewer, []models.Recipe{recipe})
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	return out[0], nil
}

// Recipes presents recipes loaded with their author, tags and ingredients
func (p *Presenter) Recipes(ctx context.Context, viewer *models.User, recipes []models.Recipe) ([]dto.RecipeResponse, error) {
	vid := viewerID(viewer)

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
	}

	favorited, err := p.favorites.TargetsAmong(ctx, vid, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	inCart, err := p.carts.TargetsAmong(ctx, vid, recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("load shopping cart: %w", err)
	}
	subscribed, err := p.subscriptions.TargetsAmong(ctx, vid, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}

	out := make([]dto.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		resp := dto.RecipeResponse{
			ID:               r.ID,
			Name:             r.Name,
			Text:             r.Text,
			Image:            r.Image,
			CookingTime:      r.CookingTime,
			CreatedAt:        r.CreatedAt,
			Tags:             r.Tags,
			Ingredients:      make([]dto.RecipeIngredientResponse, 0, len(r.Ingredients)),
			IsFavorited:      favorited[r.ID],
			IsInShoppingCart: inCart[r.ID],
		}
		if resp.Tags == nil {
			resp.Tags = []models.Tag{}
		}
		if r.Author != nil {
			author := newUserResponse(*r.Author, subscribed[r.Author.ID])
			resp.Author = &author
		}
		for _, a := range r.Ingredients {
			resp.Ingredients = append(resp.Ingredients, dto.RecipeIngredientResponse{
				ID:              a.IngredientID,
				Name:            a.Ingredient.Name,
				MeasurementUnit: a.Ingredient.MeasurementUnit,
				Amount:          a.Amount,
			})
		}
		out = append(out, resp)
	}
	return out, nil
}

func newUserResponse(u models.User, subscribed bool) dto.UserResponse {
	return dto.UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
