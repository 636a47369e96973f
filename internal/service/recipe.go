package service

import (
	"context"
	"fmt"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/repository"
	"github.com/windoze95/recipefinder-api/internal/validation"
	"go.uber.org/zap"
)

// ImageStore uploads and deletes recipe images.
type ImageStore interface {
	UploadImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// DeleteImage removes the image behind imageURL. URLs the store does not
	// own are ignored.
	DeleteImage(ctx context.Context, imageURL string) error
}

// RecipeService is the business logic layer for user-authored recipes.
type RecipeService struct {
	Repo   repository.RecipeRepo
	Images ImageStore

	profanity *goaway.ProfanityDetector
}

// NewRecipeService is the constructor function for initializing a new RecipeService
func NewRecipeService(repo repository.RecipeRepo, images ImageStore) *RecipeService {
	return &RecipeService{
		Repo:      repo,
		Images:    images,
		profanity: goaway.NewProfanityDetector().WithSanitizeLeetSpeak(true).WithSanitizeSpecialCharacters(true).WithSanitizeAccents(false),
	}
}

// CreateRecipe validates and stores a recipe owned by the principal. The ID
// is always server-assigned.
func (s *RecipeService) CreateRecipe(ctx context.Context, principal *models.Principal, candidate validation.RecipeCandidate) (*models.Recipe, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	candidate.ID = uuid.New().String()
	recipe, err := s.validateRecipe(candidate)
	if err != nil {
		return nil, err
	}
	recipe.CreatedBy = principal.ID

	if err := s.Repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}
	return recipe, nil
}

// ListUserRecipes returns the principal's recipes, newest first.
func (s *RecipeService) ListUserRecipes(ctx context.Context, principal *models.Principal) ([]models.Recipe, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}

	recipes, err := s.Repo.GetUserRecipes(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user recipes: %w", err)
	}
	return recipes, nil
}

// GetRecipe returns one of the principal's recipes.
func (s *RecipeService) GetRecipe(ctx context.Context, principal *models.Principal, recipeID string) (*models.Recipe, error) {
	return s.loadOwned(ctx, principal, recipeID)
}

// UpdateRecipe replaces the mutable fields of one of the principal's
// recipes. ID, owner and creation time are kept.
func (s *RecipeService) UpdateRecipe(ctx context.Context, principal *models.Principal, recipeID string, candidate validation.RecipeCandidate) (*models.Recipe, error) {
	existing, err := s.loadOwned(ctx, principal, recipeID)
	if err != nil {
		return nil, err
	}

	candidate.ID = existing.ID
	updated, err := s.validateRecipe(candidate)
	if err != nil {
		return nil, err
	}
	updated.CreatedBy = existing.CreatedBy
	updated.CreatedAt = existing.CreatedAt

	if err := s.Repo.UpdateRecipe(ctx, updated); err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		}
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	if existing.ImageURL != "" && existing.ImageURL != updated.ImageURL {
		s.deleteImage(ctx, existing)
	}
	return updated, nil
}

// DeleteRecipe deletes one of the principal's recipes along with every
// favorite that references it, then its uploaded image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, principal *models.Principal, recipeID string) error {
	recipe, err := s.loadOwned(ctx, principal, recipeID)
	if err != nil {
		return err
	}

	if err := s.Repo.DeleteRecipe(ctx, recipe.ID); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		}
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if recipe.ImageURL != "" {
		s.deleteImage(ctx, recipe)
	}
	return nil
}

// loadOwned fetches a recipe and applies authorizeOwner.
func (s *RecipeService) loadOwned(ctx context.Context, principal *models.Principal, recipeID string) (*models.Recipe, error) {
	if err := requirePrincipal(principal); err != nil {
		return nil, err
	}
	recipeID, err := normalizeRecipeID(recipeID)
	if err != nil {
		return nil, err
	}

	recipe, err := s.Repo.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := authorizeOwner(recipe, principal); err != nil {
		return nil, err
	}
	return recipe, nil
}

// authorizeOwner is the single ownership predicate guarding recipe access.
func authorizeOwner(recipe *models.Recipe, principal *models.Principal) error {
	if recipe.CreatedBy == "" || recipe.CreatedBy != principal.ID {
		return ErrForbidden
	}
	return nil
}

// validateRecipe applies the shared field rules plus the checks reserved for
// user-authored text.
func (s *RecipeService) validateRecipe(candidate validation.RecipeCandidate) (*models.Recipe, error) {
	recipe, err := validation.ValidateCandidate(candidate)
	if err != nil {
		return nil, candidateValidationError("", err)
	}

	if recipe.ImageURL != "" && !isHTTPURL(recipe.ImageURL) {
		return nil, newValidationError("imageUrl", "must be an absolute http(s) URL")
	}

	if s.profanity.IsProfane(recipe.Title) || s.profanity.IsProfane(recipe.Description) {
		return nil, ErrInappropriateContent
	}
	return recipe, nil
}

func (s *RecipeService) deleteImage(ctx context.Context, recipe *models.Recipe) {
	if s.Images == nil {
		return
	}
	if err := s.Images.DeleteImage(ctx, recipe.ImageURL); err != nil {
		logger.Get().Warn("failed to delete recipe image",
			zap.String("recipe_id", recipe.ID),
			zap.String("image_url", recipe.ImageURL),
			zap.Error(err),
		)
	}
}

func isHTTPURL(raw string) bool {
	lower := strings.ToLower(raw)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return false
	}
	return govalidator.IsRequestURL(raw)
}
