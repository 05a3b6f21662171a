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

// TagService handles business logic for tags
type TagService struct {
	tagRepo *repositories.TagRepository
}

// NewTagService creates a new tag service instance
func NewTagService(tagRepo *repositories.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// List returns every tag ordered by name
func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.tagRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// Get returns a single tag
func (s *TagService) Get(ctx context.Context, id uint) (models.Tag, error) {
	tag, err := s.tagRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, ErrNotFound
	}
	return tag, err
}

// Create adds a tag. Staff only.
func (s *TagService) Create(ctx context.Context, actor *models.User, req dto.TagRequest) (models.Tag, error) {
	if err := RequireStaff(actor); err != nil {
		return models.Tag{}, err
	}

	tag := models.Tag{Name: req.Name, Color: req.Color, Slug: req.Slug}
	if err := s.checkUnique(ctx, tag); err != nil {
		return models.Tag{}, err
	}
	if err := s.tagRepo.Create(ctx, &tag); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Tag{}, validation.Field("slug", validation.MsgTagSlugTaken)
		}
		return models.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Update changes the provided tag fields. Staff only.
func (s *TagService) Update(ctx context.Context, actor *models.User, id uint, req dto.TagUpdateRequest) (models.Tag, error) {
	if err := RequireStaff(actor); err != nil {
		return models.Tag{}, err
	}

	tag, err := s.Get(ctx, id)
	if err != nil {
		return models.Tag{}, err
	}
	if req.Name != nil {
		tag.Name = *req.Name
	}
	if req.Color != nil {
		tag.Color = *req.Color
	}
	if req.Slug != nil {
		tag.Slug = *req.Slug
	}

	if err := s.checkUnique(ctx, tag); err != nil {
		return models.Tag{}, err
	}
	if err := s.tagRepo.Update(ctx, &tag); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Tag{}, validation.Field("slug", validation.MsgTagSlugTaken)
		}
		return models.Tag{}, fmt.Errorf("update tag: %w", err)
	}
	return tag, nil
}

// Delete removes a tag from the catalog and from every recipe. Staff only.
func (s *TagService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := RequireStaff(actor); err != nil {
		return err
	}
	err := s.tagRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *TagService) checkUnique(ctx context.Context, tag models.Tag) error {
	verr := validation.New()
	if taken, err := s.tagRepo.ExistsByName(ctx, tag.Name, tag.ID); err != nil {
		return err
	} else if taken {
		verr.Add("name", validation.MsgTagNameTaken)
	}
	if taken, err := s.tagRepo.ExistsBySlug(ctx, tag.Slug, tag.ID); err != nil {
		return err
	} else if taken {
		verr.Add("slug", validation.MsgTagSlugTaken)
	}
	return verr.Err()
}

// IngredientService handles business logic for ingredients
type IngredientService struct {
	ingredientRepo *repositories.IngredientRepository
}

// NewIngredientService creates a new ingredient service instance
func NewIngredientService(ingredientRepo *repositories.IngredientRepository) *IngredientService {
	return &IngredientService{ingredientRepo: ingredientRepo}
}

// Search lists ingredients whose name contains term
func (s *IngredientService) Search(ctx context.Context, term string) ([]models.Ingredient, error) {
	ingredients, err := s.ingredientRepo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search ingredients: %w", err)
	}
	return ingredients, nil
}

// Get returns a single ingredient
func (s *IngredientService) Get(ctx context.Context, id uint) (models.Ingredient, error) {
	ingredient, err := s.ingredientRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Ingredient{}, ErrNotFound
	}
	return ingredient, err
}

// Create adds an ingredient. Staff only.
func (s *IngredientService) Create(ctx context.Context, actor *models.User, req dto.IngredientRequest) (models.Ingredient, error) {
	if err := RequireStaff(actor); err != nil {
		return models.Ingredient{}, err
	}

	ingredient := models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.ingredientRepo.Create(ctx, &ingredient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Ingredient{}, validation.Field(validation.NonFieldErrors, validation.MsgIngredientTaken)
		}
		return models.Ingredient{}, fmt.Errorf("create ingredient: %w", err)
	}
	return ingredient, nil
}

// Update changes the provided ingredient fields. Staff only.
func (s *IngredientService) Update(ctx context.Context, actor *models.User, id uint, req dto.IngredientUpdateRequest) (models.Ingredient, error) {
	if err := RequireStaff(actor); err != nil {
		return models.Ingredient{}, err
	}

	ingredient, err := s.Get(ctx, id)
	if err != nil {
		return models.Ingredient{}, err
	}
	if req.Name != nil {
		ingredient.Name = *req.Name
	}
	if req.MeasurementUnit != nil {
		ingredient.MeasurementUnit = *req.MeasurementUnit
	}

	if err := s.ingredientRepo.Update(ctx, &ingredient); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return models.Ingredient{}, validation.Field(validation.NonFieldErrors, validation.MsgIngredientTaken)
		}
		return models.Ingredient{}, fmt.Errorf("update ingredient: %w", err)
	}
	return ingredient, nil
}

// Delete removes an ingredient unless a recipe still uses it. Staff only.
func (s *IngredientService) Delete(ctx context.Context, actor *models.User, id uint) error {
	if err := RequireStaff(actor); err != nil {
		return err
	}

	err := s.ingredientRepo.Delete(ctx, id)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrReferenced):
		return ErrIngredientInUse
	}
	return err
}

// ImportResult summarises a bulk ingredient import
type ImportResult struct {
	Created int
	Skipped int
}

// Import upserts ingredients by (name, unit); existing pairs are skipped
func (s *IngredientService) Import(ctx context.Context, items []dto.IngredientRequest) (ImportResult, error) {
	var res ImportResult
	for i, item := range items {
		if err := validation.Struct(&item); err != nil {
			return res, fmt.Errorf("item %d (%q): %w", i+1, item.Name, err)
		}

		ingredient := models.Ingredient{Name: item.Name, MeasurementUnit: item.MeasurementUnit}
		created, err := s.ingredientRepo.FirstOrCreate(ctx, &ingredient)
		if err != nil {
			return res, fmt.Errorf("item %d (%q): %w", i+1, item.Name, err)
		}
		if created {
			res.Created++
		} else {
			res.Skipped++
		}
	}
	return res, nil
}
