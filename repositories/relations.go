package repositories

import (
	"github.com/foodgram-api/models"
	"gorm.io/gorm"
)

// NewFavoriteRelation manages user → recipe favorites
func NewFavoriteRelation(db *gorm.DB) *Relation[models.Favorite] {
	return NewRelation(db, "user_id", "recipe_id", func(userID, recipeID uint) models.Favorite {
		return models.Favorite{UserID: userID, RecipeID: recipeID}
	})
}

// NewShoppingCartRelation manages user → recipe shopping cart entries
func NewShoppingCartRelation(db *gorm.DB) *Relation[models.ShoppingCart] {
	return NewRelation(db, "user_id", "recipe_id", func(userID, recipeID uint) models.ShoppingCart {
		return models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	})
}

// NewSubscriptionRelation manages follower → author subscriptions
func NewSubscriptionRelation(db *gorm.DB) *Relation[models.Subscription] {
	return NewRelation(db, "user_id", "author_id", func(userID, authorID uint) models.Subscription {
		return models.Subscription{UserID: userID, AuthorID: authorID}
	})
}
