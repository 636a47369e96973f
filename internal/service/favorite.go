package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/metrics"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/repository"
	"github.com/windoze95/recipefinder-api/internal/validation"
	"go.uber.org/zap"
)

// FavoriteService manages a user's favorite recipes, persisting LLM recipes
// the first time one is favorited.
type FavoriteService struct {
	Recipes   repository.RecipeRepo
	Favorites repository.FavoriteRepo
}

// NewFavoriteService creates a new FavoriteService.
func NewFavoriteService(recipes repository.RecipeRepo, favorites repository.FavoriteRepo) *FavoriteService {
	return &FavoriteService{
		Recipes:   recipes,
		Favorites: favorites,
	}
}

// AddFavorite favorites recipeID for the principal. When the recipe is not
// stored yet and candidate is given, the candidate is validated and saved
// under recipeID, owned by the principal. Adding an existing favorite fails
// with ErrDuplicateFavorite.
func (s *FavoriteService) AddFavorite(ctx context.Context, principal *models.Principal, recipeID string, candidate *validation.RecipeCandidate) (*models.Favorite, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	recipeID, err := normalizeRecipeID(recipeID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.ensureRecipe(ctx, principal, recipeID, candidate)
	if err != nil {
		metrics.RecordFavorite("add", outcomeOf(err))
		return nil, err
	}

	// Advisory check; the unique index decides under concurrency.
	if _, err := s.Favorites.FindFavorite(ctx, principal.ID, recipeID); err == nil {
		metrics.RecordFavorite("add", "duplicate")
		return nil, ErrDuplicateFavorite
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check favorite: %w", err)
	}

	favorite := &models.Favorite{UserID: principal.ID, RecipeID: recipeID}
	if err := s.Favorites.CreateFavorite(ctx, favorite); err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			err = ErrDuplicateFavorite
		case repository.IsNotFound(err):
			err = fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		default:
			err = fmt.Errorf("failed to add favorite: %w", err)
		}
		metrics.RecordFavorite("add", outcomeOf(err))
		return nil, err
	}
	if favorite.Recipe == nil {
		favorite.Recipe = recipe
	}

	metrics.RecordFavorite("add", "success")
	return favorite, nil
}

// ensureRecipe returns the stored recipe, materializing candidate if needed.
func (s *FavoriteService) ensureRecipe(ctx context.Context, principal *models.Principal, recipeID string, candidate *validation.RecipeCandidate) (*models.Recipe, error) {
	recipe, err := s.Recipes.GetRecipeByID(ctx, recipeID)
	if err == nil {
		return recipe, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("failed to look up recipe: %w", err)
	}
	if candidate == nil {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}

	c := *candidate
	c.ID = recipeID
	recipe, err = validation.ValidateCandidate(c)
	if err != nil {
		return nil, candidateValidationError("recipe", err)
	}
	recipe.CreatedBy = principal.ID

	err = s.Recipes.CreateRecipe(ctx, recipe)
	if errors.Is(err, repository.ErrConflict) {
		// Another request materialized the same recipe first.
		return s.Recipes.GetRecipeByID(ctx, recipeID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}

	metrics.RecipesMaterialized.Inc()
	logger.Get().Info("materialized recipe on first favorite",
		zap.String("recipe_id", recipeID),
		zap.String("user_id", principal.ID),
	)
	return recipe, nil
}

// RemoveFavorite removes the favorite if present. Removing a favorite that
// does not exist is not an error.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, principal *models.Principal, recipeID string) error {
	if err := requirePrincipal(principal); err != nil {
		return err
	}
	recipeID, err := normalizeRecipeID(recipeID)
	if err != nil {
		return err
	}

	if err := s.Favorites.DeleteFavorite(ctx, principal.ID, recipeID); err != nil {
		metrics.RecordFavorite("remove", "error")
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	metrics.RecordFavorite("remove", "success")
	return nil
}

// IsFavorite reports whether the principal has favorited recipeID.
func (s *FavoriteService) IsFavorite(ctx context.Context, principal *models.Principal, recipeID string) (bool, error) {
	if err := requirePrincipal(principal); err != nil {
		return false, err
	}
	recipeID, err := normalizeRecipeID(recipeID)
	if err != nil {
		return false, err
	}

	_, err = s.Favorites.FindFavorite(ctx, principal.ID, recipeID)
	if repository.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return true, nil
}

// ListFavorites returns the principal's favorites with their recipes, newest
// first.
func (s *FavoriteService) ListFavorites(ctx context.Context, principal *models.Principal) ([]models.Favorite, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	favorites, err := s.Favorites.GetUserFavorites(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return favorites, nil
}

func requirePrincipal(principal *models.Principal) error {
	if principal == nil || principal.ID == "" {
		return ErrUnauthenticated
	}
	return nil
}

func normalizeRecipeID(recipeID string) (string, error) {
	recipeID = strings.TrimSpace(recipeID)
	if recipeID == "" {
		return "", newValidationError("recipeId", "is required")
	}
	if len(recipeID) > models.MaxRecipeIDLength {
		return "", newValidationError("recipeId", fmt.Sprintf("must be at most %d characters", models.MaxRecipeIDLength))
	}
	return recipeID, nil
}

// candidateValidationError turns a validator failure into a ValidationError
// whose field is qualified by prefix.
func candidateValidationError(prefix string, err error) error {
	var fieldErr *validation.FieldError
	if errors.As(err, &fieldErr) {
		field := fieldErr.Field
		if prefix != "" && field != "" {
			field = prefix + "." + field
		}
		return newValidationError(field, fieldErr.Message)
	}
	return newValidationError(prefix, err.Error())
}

func outcomeOf(err error) string {
	var vErr *ValidationError
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrDuplicateFavorite):
		return "duplicate"
	case errors.Is(err, ErrRecipeNotFound):
		return "not_found"
	case errors.As(err, &vErr):
		return "invalid"
	default:
		return "error"
	}
}
