package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Tag classifies recipes (breakfast, lunch, ...)
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null"`
	Color string `json:"color" gorm:"size:7;not null;default:'#CD5C5C'"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null"`
}

// Ingredient is catalog data; the (name, unit) pair is unique
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:30;not null;uniqueIndex:idx_ingredient_name_unit"`

	// NameLower backs case-insensitive search on stores whose LOWER is ASCII only
	NameLower string `json:"-" gorm:"size:200;not null;default:'';index"`
}

// BeforeSave keeps NameLower in step with Name
func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.NameLower = strings.ToLower(i.Name)
	return nil
}

// Recipe is the aggregate root owning its tag set and ingredient amounts
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	AuthorID    *uint     `json:"author_id" gorm:"index"`
	Name        string    `json:"name" gorm:"size:200;not null"`
	Text        string    `json:"text" gorm:"size:1024;not null"`
	Image       string    `json:"image" gorm:"size:255"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:chk_recipe_cooking_time,cooking_time >= 1"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []IngredientAmount `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// IngredientAmount links an ingredient to a recipe with a quantity
type IngredientAmount struct {
	ID           uint `json:"id" gorm:"primaryKey"`
	RecipeID     uint `json:"recipe_id" gorm:"not null;index"`
	IngredientID uint `json:"ingredient_id" gorm:"not null;index"`
	Amount       int  `json:"amount" gorm:"not null;check:chk_ingredient_amount_min,amount >= 1"`

	Ingredient Ingredient `json:"ingredient" gorm:"foreignKey:IngredientID;constraint:OnDelete:RESTRICT"`
}

// Favorite marks a recipe as favorited by a user
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	CreatedAt time.Time `json:"added_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCart puts a recipe into a user's shopping list
type ShoppingCart struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	UserID   uint `json:"user_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID uint `json:"recipe_id" gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`

	User   User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// All lists every model managed by migrations, parents first
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&IngredientAmount{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}
