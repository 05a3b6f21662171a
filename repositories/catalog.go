package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/foodgram-api/models"
	"gorm.io/gorm"
)

// TagRepository handles database operations for tags
type TagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository instance
func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// FindAll retrieves all tags ordered by name
func (r *TagRepository) FindAll(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	result := r.db.WithContext(ctx).Order("name ASC").Find(&tags)
	return tags, result.Error
}

// FindByID retrieves a tag by its ID
func (r *TagRepository) FindByID(ctx context.Context, id uint) (models.Tag, error) {
	var tag models.Tag
	result := r.db.WithContext(ctx).First(&tag, "id = ?", id)
	return tag, result.Error
}

// FindByIDs retrieves the tags that exist among ids
func (r *TagRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags)
	return tags, result.Error
}

// Create inserts a new tag
func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Create(tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Update saves a modified tag
func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	err := r.db.WithContext(ctx).Save(tag).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// ExistsByName checks for another tag with the name, excluding exceptID
func (r *TagRepository) ExistsByName(ctx context.Context, name string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count).Error
	return count > 0, err
}

// ExistsBySlug checks for another tag with the slug, excluding exceptID
func (r *TagRepository) ExistsBySlug(ctx context.Context, slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Tag{}).Where("slug = ? AND id <> ?", slug, exceptID).Count(&count).Error
	return count > 0, err
}

// Delete removes a tag and detaches it from recipes
func (r *TagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Tag{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// IngredientRepository handles database operations for ingredients
type IngredientRepository struct {
	db *gorm.DB
}

// NewIngredientRepository creates a new ingredient repository instance
func NewIngredientRepository(db *gorm.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

// Search retrieves ingredients whose name contains the term, case-insensitively.
// An empty term returns the whole catalog.
func (r *IngredientRepository) Search(ctx context.Context, term string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient

	db := r.db.WithContext(ctx)
	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		if r.db.Dialector.Name() == "postgres" {
			db = db.Where("name ILIKE ? ESCAPE '\\'", pattern)
		} else {
			db = db.Where("name_lower LIKE ? ESCAPE '\\'", pattern)
		}
	}
	result := db.Order("name ASC").Order("measurement_unit ASC").Find(&ingredients)
	return ingredients, result.Error
}

// FindByID retrieves an ingredient by its ID
func (r *IngredientRepository) FindByID(ctx context.Context, id uint) (models.Ingredient, error) {
	var ingredient models.Ingredient
	result := r.db.WithContext(ctx).First(&ingredient, "id = ?", id)
	return ingredient, result.Error
}

// FindByIDs retrieves the ingredients that exist among ids
func (r *IngredientRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients)
	return ingredients, result.Error
}

// Create inserts a new ingredient
func (r *IngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	err := r.db.WithContext(ctx).Create(ingredient).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// FirstOrCreate inserts the ingredient unless the (name, unit) pair already exists.
// It reports whether a row was created.
func (r *IngredientRepository) FirstOrCreate(ctx context.Context, ingredient *models.Ingredient) (bool, error) {
	var existing models.Ingredient
	err := r.db.WithContext(ctx).
		Where("name = ? AND measurement_unit = ?", ingredient.Name, ingredient.MeasurementUnit).
		First(&existing).Error
	if err == nil {
		*ingredient = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := r.Create(ctx, ingredient); err != nil {
		return false, err
	}
	return true, nil
}

// Update saves a modified ingredient
func (r *IngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	err := r.db.WithContext(ctx).Save(ingredient).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Delete removes an ingredient. Deletion is restricted while any recipe uses it.
func (r *IngredientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.IngredientAmount{}).Where("ingredient_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return ErrReferenced
		}

		result := tx.Delete(&models.Ingredient{}, "id = ?", id)
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ErrReferenced
		}
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
