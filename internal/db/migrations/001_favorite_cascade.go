package migrations

import (
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// favoriteRecipeFK is the constraint name gorm derives for Favorite.Recipe.
const favoriteRecipeFK = "fk_favorites_recipe"

// EnsureFavoriteCascade makes recipe deletion cascade to favorites on
// databases created before the constraint existed. It removes favorites whose
// recipe is gone, then on Postgres recreates the foreign key with
// ON DELETE CASCADE.
//
// This migration is idempotent.
func EnsureFavoriteCascade(db *gorm.DB) error {
	result := db.Where("recipe_id NOT IN (?)", db.Model(&models.Recipe{}).Select("id")).
		Delete(&models.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		logger.Get().Info("removed orphaned favorites", zap.Int64("count", result.RowsAffected))
	}

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`ALTER TABLE favorites DROP CONSTRAINT IF EXISTS ` + favoriteRecipeFK).Error; err != nil {
			return err
		}
		return tx.Exec(`ALTER TABLE favorites ADD CONSTRAINT ` + favoriteRecipeFK +
			` FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON UPDATE CASCADE ON DELETE CASCADE`).Error
	})
}
