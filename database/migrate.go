package database

import (
	"fmt"
	"strings"

	"github.com/foodgram-api/logger"
	"github.com/foodgram-api/models"
	"gorm.io/gorm"
)

// DBConnection represents a database connection together with the models it manages
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Models []interface{}
}

// NewDBConnection wraps an opened database with the foodgram models
func NewDBConnection(name string, db *gorm.DB) *DBConnection {
	return &DBConnection{
		DB:     db,
		Name:   name,
		Models: models.All(),
	}
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	logger.L().Infof("migrating %s database schema...", c.Name)
	if err := c.DB.AutoMigrate(c.Models...); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	if err := c.backfillIngredientSearch(); err != nil {
		return fmt.Errorf("failed to backfill %s ingredient search names: %w", c.Name, err)
	}
	logger.L().Infof("%s database schema migrated", c.Name)
	return nil
}

// backfillIngredientSearch fills name_lower for rows written before the column existed
func (c *DBConnection) backfillIngredientSearch() error {
	var stale []models.Ingredient
	if err := c.DB.Where("name_lower = ''").Find(&stale).Error; err != nil {
		return err
	}
	for i := range stale {
		err := c.DB.Model(&stale[i]).UpdateColumn("name_lower", strings.ToLower(stale[i].Name)).Error
		if err != nil {
			return err
		}
	}
	if len(stale) > 0 {
		logger.L().Infof("backfilled search names for %d ingredients", len(stale))
	}
	return nil
}
