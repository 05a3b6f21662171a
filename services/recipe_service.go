package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"github.com/foodgram-api/repositories"
	"github.com/foodgram-api/validation"
	"gorm.io/gorm"
)

// DefaultRecipePageSize is the recipe list limit when none is requested
const DefaultRecipePageSize = 6

// RecipeService handles business logic for recipes and the per-user recipe relations
type RecipeService struct {
	recipeRepo     *repositories.RecipeRepository
	tagRepo        *repositories.TagRepository
	ingredientRepo *repositories.IngredientRepository
	images         *ImageService
	presenter      *Presenter
	favorites      *Toggle[models.Favorite]
	carts          *Toggle[models.ShoppingCart]
}

// NewRecipeService creates a new recipe service instance
func NewRecipeService(
	recipeRepo *repositories.RecipeRepository,
	tagRepo *repositories.TagRepository,
	ingredientRepo *repositories.IngredientRepository,
	images *ImageService,
	presenter *Presenter,
	favorites *Toggle[models.Favorite],
	carts *Toggle[models.ShoppingCart],
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		images:         images,
		presenter:      presenter,
		favorites:      favorites,
		carts:          carts,
	}
}

// List retrieves recipes with filtering and pagination.
// Favorite and cart filters are ignored for anonymous viewers.
func (s *RecipeService) List(ctx context.Context, actor *models.User, filter dto.RecipeFilter) (dto.ListResponse[dto.RecipeResponse], error) {
	filter.Pagination = filter.Pagination.Normalize(DefaultRecipePageSize)
	filter.ViewerID = viewerID(actor)

	recipes, totalCount, err := s.recipeRepo.FindWithPagination(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.RecipeResponse]{}, fmt.Errorf("list recipes: %w", err)
	}

	results, err := s.presenter.Recipes(ctx, actor, recipes)
	if err != nil {
		return dto.ListResponse[dto.RecipeResponse]{}, err
	}
	return dto.NewListResponse(results, totalCount, filter.Pagination), nil
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, actor *models.User, id uint) (dto.RecipeResponse, error) {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	return s.presenter.Recipe(ctx, actor, recipe)
}

// Create publishes a new recipe authored by actor
func (s *RecipeService) Create(ctx context.Context, actor *models.User, req dto.RecipeCreateRequest) (dto.RecipeResponse, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return dto.RecipeResponse{}, err
	}
	if err := s.checkReferences(ctx, req.Tags, req.Ingredients); err != nil {
		return dto.RecipeResponse{}, err
	}

	image, err := s.images.Store(req.Image)
	if err != nil {
		return dto.RecipeResponse{}, err
	}

	recipe := models.Recipe{
		AuthorID:    &actor.ID,
		Name:        req.Name,
		Text:        req.Text,
		Image:       image,
		CookingTime: req.CookingTime,
	}
	if err := s.recipeRepo.Create(ctx, &recipe, req.Tags, toAmounts(req.Ingredients)); err != nil {
		s.images.Remove(image)
		return dto.RecipeResponse{}, fmt.Errorf("create recipe: %w", err)
	}

	return s.Get(ctx, actor, recipe.ID)
}

// Update applies a partial update. Only the author or staff may update.
func (s *RecipeService) Update(ctx context.Context, actor *models.User, id uint, req dto.RecipeUpdateRequest) (dto.RecipeResponse, error) {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return dto.RecipeResponse{}, err
	}
	if err := RequireOwnerOrStaff(actor, recipe.AuthorID); err != nil {
		return dto.RecipeResponse{}, err
	}
	if err := s.checkReferences(ctx, req.Tags, req.Ingredients); err != nil {
		return dto.RecipeResponse{}, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	if req.CookingTime != nil {
		fields["cooking_time"] = *req.CookingTime
	}

	var newImage string
	if req.Image != nil {
		newImage, err = s.images.Store(*req.Image)
		if err != nil {
			return dto.RecipeResponse{}, err
		}
		fields["image"] = newImage
	}

	var amounts []models.IngredientAmount
	if req.Ingredients != nil {
		amounts = toAmounts(req.Ingredients)
	}

	if err := s.recipeRepo.Update(ctx, id, fields, req.Tags, amounts); err != nil {
		if newImage != "" {
			s.images.Remove(newImage)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RecipeResponse{}, ErrNotFound
		}
		return dto.RecipeResponse{}, fmt.Errorf("update recipe: %w", err)
	}
	if newImage != "" {
		s.removeImageIfUnused(ctx, recipe.Image, id)
	}

	return s.Get(ctx, actor, id)
}

// Delete removes a recipe. Only the author or staff may delete.
func (s *RecipeService) Delete(ctx context.Context, actor *models.User, id uint) error {
	recipe, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := RequireOwnerOrStaff(actor, recipe.AuthorID); err != nil {
		return err
	}

	if err := s.recipeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}
	s.removeImageIfUnused(ctx, recipe.Image, id)
	return nil
}

// AddFavorite marks the recipe as a favorite of actor
func (s *RecipeService) AddFavorite(ctx context.Context, actor *models.User, id uint) (dto.RecipeShortResponse, error) {
	return s.addRelation(ctx, actor, id, s.favorites.Add)
}

// RemoveFavorite removes the recipe from actor's favorites
func (s *RecipeService) RemoveFavorite(ctx context.Context, actor *models.User, id uint) error {
	return s.removeRelation(ctx, actor, id, s.favorites.Remove)
}

// AddToShoppingCart puts the recipe into actor's shopping cart
func (s *RecipeService) AddToShoppingCart(ctx context.Context, actor *models.User, id uint) (dto.RecipeShortResponse, error) {
	return s.addRelation(ctx, actor, id, s.carts.Add)
}

// RemoveFromShoppingCart takes the recipe out of actor's shopping cart
func (s *RecipeService) RemoveFromShoppingCart(ctx context.Context, actor *models.User, id uint) error {
	return s.removeRelation(ctx, actor, id, s.carts.Remove)
}

type relationFunc func(ctx context.Context, ownerID, targetID uint) error

func (s *RecipeService) addRelation(ctx context.Context, actor *models.User, id uint, add relationFunc) (dto.RecipeShortResponse, error) {
	if err := RequireAuthenticated(actor); err != nil {
		return dto.RecipeShortResponse{}, err
	}
	recipe, err := s.find(ctx, id)
	if err != nil {
		return dto.RecipeShortResponse{}, err
	}
	if err := add(ctx, actor.ID, recipe.ID); err != nil {
		return dto.RecipeShortResponse{}, err
	}
	return dto.NewRecipeShortResponse(recipe), nil
}

func (s *RecipeService) removeRelation(ctx context.Context, actor *models.User, id uint, remove relationFunc) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	exists, err := s.recipeRepo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("find recipe: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return remove(ctx, actor.ID, id)
}

func (s *RecipeService) find(ctx context.Context, id uint) (models.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Recipe{}, ErrNotFound
	}
	if err != nil {
		return models.Recipe{}, fmt.Errorf("find recipe: %w", err)
	}
	return recipe, nil
}

// checkReferences reports the first unknown tag and ingredient id, keyed by field
func (s *RecipeService) checkReferences(ctx context.Context, tagIDs []uint, ingredients []dto.IngredientAmountInput) error {
	verr := validation.New()

	if len(tagIDs) > 0 {
		tags, err := s.tagRepo.FindByIDs(ctx, tagIDs)
		if err != nil {
			return fmt.Errorf("load tags: %w", err)
		}
		known := make(map[uint]bool, len(tags))
		for _, t := range tags {
			known[t.ID] = true
		}
		if missing, ok := firstMissing(tagIDs, known); ok {
			verr.Add("tags", fmt.Sprintf(validation.MsgObjectDoesNotExist, missing))
		}
	}

	if len(ingredients) > 0 {
		ids := make([]uint, 0, len(ingredients))
		for _, in := range ingredients {
			ids = append(ids, in.ID)
		}
		found, err := s.ingredientRepo.FindByIDs(ctx, ids)
		if err != nil {
			return fmt.Errorf("load ingredients: %w", err)
		}
		known := make(map[uint]bool, len(found))
		for _, in := range found {
			known[in.ID] = true
		}
		if missing, ok := firstMissing(ids, known); ok {
			verr.Add("ingredients", fmt.Sprintf(validation.MsgObjectDoesNotExist, missing))
		}
	}

	return verr.Err()
}

func (s *RecipeService) removeImageIfUnused(ctx context.Context, image string, recipeID uint) {
	if image == "" {
		return
	}
	inUse, err := s.recipeRepo.ImageInUse(ctx, image, recipeID)
	if err != nil || inUse {
		return
	}
	s.images.Remove(image)
}

func firstMissing(ids []uint, known map[uint]bool) (uint, bool) {
	for _, id := range ids {
		if !known[id] {
			return id, true
		}
	}
	return 0, false
}

func toAmounts(in []dto.IngredientAmountInput) []models.IngredientAmount {
	out := make([]models.IngredientAmount, 0, len(in))
	for _, a := range in {
		out = append(out, models.IngredientAmount{IngredientID: a.ID, Amount: a.Amount})
	}
	return out
}
