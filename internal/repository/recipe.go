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

// RecipeRepository is a repository for interacting with recipes.
type RecipeRepository struct {
	DB *gorm.DB
}

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

// CreateRecipe creates a new recipe in a single transaction. A recipe whose
// ID already exists yields ErrConflict.
func (r *RecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	// Start a new transaction
	tx := r.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := tx.Create(recipe).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return fmt.Errorf("recipe %s: %w", recipe.ID, ErrConflict)
		}
		logger.Get().Error("failed to create recipe", zap.String("recipe_id", recipe.ID), zap.Error(err))
		return err
	}

	if err := tx.Commit().Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("recipe %s: %w", recipe.ID, ErrConflict)
		}
		return err
	}
	return nil
}

// GetRecipeByID retrieves a recipe by its ID.
func (r *RecipeRepository) GetRecipeByID(ctx context.Context, recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe

	err := r.DB.WithContext(ctx).
		Where("id = ?", recipeID).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Recipe not found"}
		}
		return nil, err
	}

	return &recipe, nil
}

// FindRecipes returns every recipe matching filter. No match is an empty
// slice, not an error.
func (r *RecipeRepository) FindRecipes(ctx context.Context, filter RecipeFilter) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := filter.Apply(r.DB.WithContext(ctx)).Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}
	return recipes, nil
}

// GetUserRecipes returns the recipes owned by a user, newest first.
func (r *RecipeRepository) GetUserRecipes(ctx context.Context, userID string) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := r.DB.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user recipes: %w", err)
	}
	return recipes, nil
}

// UpdateRecipe writes the mutable fields of recipe. ID, owner and creation
// time are never changed.
func (r *RecipeRepository) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	result := r.DB.WithContext(ctx).
		Model(recipe).
		Select("Title", "Description", "Ingredients", "Instructions", "CookingTime",
			"Difficulty", "Servings", "ImageURL", "UpdatedAt",
			"dietary_vegetarian", "dietary_vegan", "dietary_gluten_free",
			"dietary_dairy_free", "dietary_nut_free", "dietary_other").
		Updates(recipe)
	if result.Error != nil {
		logger.Get().Error("failed to update recipe", zap.String("recipe_id", recipe.ID), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return NotFoundError{message: "Recipe not found"}
	}
	return nil
}

// DeleteRecipe deletes a recipe together with every favorite pointing at it.
func (r *RecipeRepository) DeleteRecipe(ctx context.Context, recipeID string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Favorite{}).Error; err != nil {
			return fmt.Errorf("failed to delete recipe favorites: %w", err)
		}

		result := tx.Where("id = ?", recipeID).Delete(&models.Recipe{})
		if result.Error != nil {
			logger.Get().Error("failed to delete recipe", zap.String("recipe_id", recipeID), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return NotFoundError{message: "Recipe not found"}
		}
		return nil
	})
}
