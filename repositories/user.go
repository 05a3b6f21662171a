package repositories

import (
	"context"
	"errors"

	"github.com/foodgram-api/dto"
	"github.com/foodgram-api/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by its ID
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	return user, result.Error
}

// FindByEmail retrieves a user by email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	return user, result.Error
}

// ExistsByEmail checks if the email is already registered
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByUsername checks if the username is already taken
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// Create inserts a new user into the database
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindWithPagination retrieves users ordered by id
func (r *UserRepository) FindWithPagination(ctx context.Context, p dto.Pagination) ([]models.User, int64, error) {
	var users []models.User
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})
	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id ASC").Limit(p.Limit).Offset(p.Offset()).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, totalCount, nil
}

// FindSubscribedAuthors retrieves the authors the user is subscribed to
func (r *UserRepository) FindSubscribedAuthors(ctx context.Context, userID uint, p dto.Pagination) ([]models.User, int64, error) {
	var authors []models.User
	var totalCount int64

	sub := r.db.Model(&models.Subscription{}).Select("author_id").Where("user_id = ?", userID)
	db := r.db.WithContext(ctx).Model(&models.User{}).Where("id IN (?)", sub).Session(&gorm.Session{})

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if err := db.Order("id ASC").Limit(p.Limit).Offset(p.Offset()).Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, totalCount, nil
}

// Delete removes a user. Authored recipes survive with a null author; the
// user's favorites, cart entries and subscriptions in both directions go away.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", id).Update("author_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
