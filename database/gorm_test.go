package database_test

import (
	"context"
	"errors"
	"testing"

	"github.com/foodgram-api/config"
	"github.com/foodgram-api/database"
	"github.com/foodgram-api/database/dbtest"
	"github.com/foodgram-api/models"
	"gorm.io/gorm"
)

func TestMigrate_EnforcesConstraints(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	if err := database.Ping(ctx, db); err != nil {
		t.Fatalf("ping: %v", err)
	}

	u := models.User{Email: "a@example.com", Username: "a", FirstName: "A", LastName: "A", Password: "x"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	dup := models.User{Email: "a@example.com", Username: "b", FirstName: "B", LastName: "B", Password: "x"}
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate email error = %v, want ErrDuplicatedKey", err)
	}

	self := models.Subscription{UserID: u.ID, AuthorID: u.ID}
	if err := db.Create(&self).Error; err == nil {
		t.Error("self subscription passed the check constraint")
	}

	zero := models.Recipe{AuthorID: &u.ID, Name: "r", Text: "t", CookingTime: 0}
	if err := db.Create(&zero).Error; err == nil {
		t.Error("recipe with cooking_time 0 passed the check constraint")
	}
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := database.Open(config.Config{DBDriver: "mysql", DBURL: "mysql://localhost"})
	if err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}

func TestMigrate_BackfillsIngredientSearchNames(t *testing.T) {
	db := dbtest.New(t)

	if err := db.Exec("INSERT INTO ingredients (name, measurement_unit, name_lower) VALUES (?, ?, '')", "Соль", "г").Error; err != nil {
		t.Fatalf("insert legacy row: %v", err)
	}
	if err := database.NewDBConnection("test", db).Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var got models.Ingredient
	if err := db.First(&got, "name = ?", "Соль").Error; err != nil {
		t.Fatal(err)
	}
	if got.NameLower != "соль" {
		t.Errorf("name_lower = %q, want %q", got.NameLower, "соль")
	}
}
