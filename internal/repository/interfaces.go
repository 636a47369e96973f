package repository

import (
	"context"

	"github.com/windoze95/recipefinder-api/internal/models"
)

// RecipeRepo is the interface for recipe repository operations.
type RecipeRepo interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, recipeID string) (*models.Recipe, error)
	FindRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error)
	GetUserRecipes(ctx context.Context, userID string) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// FavoriteRepo is the interface for favorite repository operations.
type FavoriteRepo interface {
	CreateFavorite(ctx context.Context, favorite *models.Favorite) error
	FindFavorite(ctx context.Context, userID, recipeID string) (*models.Favorite, error)
	DeleteFavorite(ctx context.Context, userID, recipeID string) error
	GetUserFavorites(ctx context.Context, userID string) ([]models.Favorite, error)
}
