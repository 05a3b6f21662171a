package services

import (
	"time"

	"github.com/foodgram-api/metrics"
	"github.com/foodgram-api/repositories"
	"gorm.io/gorm"
)

// Options carries the settings the services need from config
type Options struct {
	JWTSecret string
	JWTTTL    time.Duration
	MediaRoot string
	MediaURL  string
}

// Services bundles every service sharing one database handle
type Services struct {
	Auth         *AuthService
	Users        *UserService
	Tags         *TagService
	Ingredients  *IngredientService
	Recipes      *RecipeService
	ShoppingList *ShoppingListService
}

// New wires repositories and services over db
func New(db *gorm.DB, opts Options, m *metrics.Metrics) *Services {
	userRepo := repositories.NewUserRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	ingredientRepo := repositories.NewIngredientRepository(db)
	recipeRepo := repositories.NewRecipeRepository(db)

	favorites := repositories.NewFavoriteRelation(db)
	carts := repositories.NewShoppingCartRelation(db)
	subscriptions := repositories.NewSubscriptionRelation(db)

	presenter := NewPresenter(favorites, carts, subscriptions)
	images := NewImageService(opts.MediaRoot, opts.MediaURL)

	return &Services{
		Auth:        NewAuthService(userRepo, opts.JWTSecret, opts.JWTTTL),
		Users:       NewUserService(userRepo, recipeRepo, presenter, NewToggle("subscription", subscriptions, m)),
		Tags:        NewTagService(tagRepo),
		Ingredients: NewIngredientService(ingredientRepo),
		Recipes: NewRecipeService(
			recipeRepo, tagRepo, ingredientRepo, images, presenter,
			NewToggle("favorite", favorites, m),
			NewToggle("shopping_cart", carts, m),
		),
		ShoppingList: NewShoppingListService(recipeRepo, m),
	}
}
