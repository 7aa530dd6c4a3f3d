package database

import (
	"fmt"
	"log"

	"inventory/internal/config"
	"inventory/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg config.Database) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("driver %q has no SQL database", cfg.Driver)
	}

	// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}
	log.Printf("Connected to %s database", cfg.Driver)
	return db, nil
}

// Migrate creates or updates the product, store and store_products tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.Store{}, &models.StoreProduct{}); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	return nil
}
