package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/windoze95/recipefinder-api/internal/db"
	"github.com/windoze95/recipefinder-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

func testRecipe(id string, cookingTime int, difficulty models.Difficulty, createdAt time.Time, ingredients ...string) *models.Recipe {
	return &models.Recipe{
		ID:           id,
		Title:        "Recipe " + id,
		Description:  "A test recipe",
		Ingredients:  ingredients,
		Instructions: models.StringList{"Cook it"},
		CookingTime:  cookingTime,
		Difficulty:   difficulty,
		Servings:     2,
		CreatedAt:    createdAt,
	}
}
