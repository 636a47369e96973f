package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FavoriteRepository is a repository for interacting with favorites.
type FavoriteRepository struct {
	DB *gorm.DB
}

// NewFavoriteRepository creates a new FavoriteRepository.
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

// CreateFavorite inserts the (user, recipe) pair. The unique index is the
// source of truth: a second insert of the same pair yields ErrConflict, even
// when both inserts race.
func (r *FavoriteRepository) CreateFavorite(ctx context.Context, favorite *models.Favorite) error {
	err := r.DB.WithContext(ctx).Omit("Recipe").Create(favorite).Error
	switch {
	case err == nil:
	case isUniqueViolation(err):
		return fmt.Errorf("favorite %s/%s: %w", favorite.UserID, favorite.RecipeID, ErrConflict)
	case isForeignKeyViolation(err):
		return NotFoundError{message: "Recipe not found"}
	default:
		logger.Get().Error("failed to create favorite",
			zap.String("user_id", favorite.UserID),
			zap.String("recipe_id", favorite.RecipeID),
			zap.Error(err))
		return err
	}

	var recipe models.Recipe
	if err := r.DB.WithContext(ctx).Where("id = ?", favorite.RecipeID).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError{message: "Recipe not found"}
		}
		return err
	}
	favorite.Recipe = &recipe
	return nil
}

// FindFavorite returns the favorite for the pair, or a NotFoundError.
func (r *FavoriteRepository) FindFavorite(ctx context.Context, userID, recipeID string) (*models.Favorite, error) {
	var favorite models.Favorite
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Favorite not found"}
		}
		return nil, err
	}
	return &favorite, nil
}

// DeleteFavorite removes the pair if present. Removing an absent pair is not
// an error.
func (r *FavoriteRepository) DeleteFavorite(ctx context.Context, userID, recipeID string) error {
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	return nil
}

// GetUserFavorites returns a user's favorites with their recipes, newest
// first.
func (r *FavoriteRepository) GetUserFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	err := r.DB.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user favorites: %w", err)
	}
	return favorites, nil
}
