package repositories

import (
	"context"
	"errors"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeRepository handles database operations for recipes
type RecipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository creates a new recipe repository instance
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Ingredients.Ingredient")
}

// FindByID retrieves a recipe with its author, tags and ingredients
func (r *RecipeRepository) FindByID(ctx context.Context, id uint) (models.Recipe, error) {
	var recipe models.Recipe
	result := withDetails(r.db.WithContext(ctx)).First(&recipe, "id = ?", id)
	return recipe, result.Error
}

// Exists checks whether a recipe with the id is present
func (r *RecipeRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// FindWithPagination retrieves recipes matching the filter, newest first.
// Favorite and cart filters apply only when the filter carries a viewer.
func (r *RecipeRepository) FindWithPagination(ctx context.Context, filter dto.RecipeFilter) ([]models.Recipe, int64, error) {
	var recipes []models.Recipe
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.Recipe{})

	if len(filter.TagSlugs) > 0 {
		tagged := r.db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs)
		db = db.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		db = db.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if filter.ViewerID != 0 {
		if filter.IsFavorited {
			db = db.Where("recipes.id IN (?)", NewFavoriteRelation(r.db).TargetIDsQuery(filter.ViewerID))
		}
		if filter.IsInShoppingCart {
			db = db.Where("recipes.id IN (?)", NewShoppingCartRelation(r.db).TargetIDsQuery(filter.ViewerID))
		}
	}
	db = db.Session(&gorm.Session{})

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	err := withDetails(db).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset()).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, totalCount, nil
}

// FindByAuthor retrieves an author's newest recipes. A limit of 0 or less means no limit.
func (r *RecipeRepository) FindByAuthor(ctx context.Context, authorID uint, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	db := r.db.WithContext(ctx).Where("author_id = ?", authorID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	result := db.Find(&recipes)
	return recipes, result.Error
}

// CountByAuthor counts the recipes written by the author
func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// Create inserts a recipe with its tag links and ingredient amounts in one transaction
func (r *RecipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagIDs []uint, amounts []models.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		if err := replaceTags(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return replaceIngredients(tx, recipe.ID, amounts)
	})
}

// Update applies the changed columns and, when non-nil, replaces the tag set
// and the ingredient amounts. Everything happens in one transaction.
func (r *RecipeRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, tagIDs []uint, amounts []models.IngredientAmount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) == 0 {
			// relation-only edits still bump updated_at
			fields = map[string]interface{}{"updated_at": tx.NowFunc()}
		}
		result := tx.Model(&models.Recipe{ID: id}).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if tagIDs != nil {
			if err := replaceTags(tx, id, tagIDs); err != nil {
				return err
			}
		}
		if amounts != nil {
			if err := replaceIngredients(tx, id, amounts); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a recipe together with its amounts, tag links, favorites and cart entries
func (r *RecipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.IngredientAmount{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Recipe{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ImageInUse reports whether any recipe other than exceptID references the image path
func (r *RecipeRepository) ImageInUse(ctx context.Context, image string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("image = ? AND id <> ?", image, exceptID).
		Count(&count).Error
	return count > 0, err
}

func replaceTags(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", recipeID).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]map[string]interface{}, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, map[string]interface{}{"recipe_id": recipeID, "tag_id": tagID})
	}
	err := tx.Table("recipe_tags").Create(&rows).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

func replaceIngredients(tx *gorm.DB, recipeID uint, amounts []models.IngredientAmount) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.IngredientAmount{}).Error; err != nil {
		return err
	}
	if len(amounts) == 0 {
		return nil
	}

	rows := make([]models.IngredientAmount, 0, len(amounts))
	for _, a := range amounts {
		rows = append(rows, models.IngredientAmount{
			RecipeID:     recipeID,
			IngredientID: a.IngredientID,
			Amount:       a.Amount,
		})
	}
	return tx.Omit("Ingredient").Create(&rows).Error
}
