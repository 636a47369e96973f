package db

import (
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/windoze95/recipefinder-api/internal/config"
	"github.com/windoze95/recipefinder-api/internal/db/migrations"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new database connection and migrates the schema.
func New(cfg *config.Config) (*gorm.DB, error) {
	database, err := connectToDatabaseWithRetry(cfg.EnvVars.DatabaseUrl)
	if err != nil {
		return nil, err
	}
	if err := Migrate(database); err != nil {
		return nil, err
	}
	return database, nil
}

// Open returns a gorm handle over the lib/pq driver. Duplicate-key errors are
// translated to gorm.ErrDuplicatedKey.
func Open(databaseURL string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DriverName: "postgres",
		DSN:        databaseURL,
	}), &gorm.Config{TranslateError: true})
}

// connectToDatabaseWithRetry connects to the database and retries if necessary.
func connectToDatabaseWithRetry(databaseURL string) (*gorm.DB, error) {
	logger.Get().Info("connecting to database")
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = Open(databaseURL)
		if err == nil {
			break
		}
		if time.Since(start) > 1*time.Minute {
			return nil, fmt.Errorf("could not connect to database after 1 minute: %w", err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(5 * time.Second)
	}

	return database, nil
}

// Migrate creates or updates the recipe and favorite tables. Favorites
// reference recipes with ON DELETE CASCADE.
func Migrate(database *gorm.DB) error {
	if err := database.AutoMigrate(&models.Recipe{}, &models.Favorite{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	if err := migrations.EnsureFavoriteCascade(database); err != nil {
		return fmt.Errorf("failed to migrate favorite constraints: %w", err)
	}
	return nil
}
