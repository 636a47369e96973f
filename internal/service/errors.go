package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRecipeNotFound is returned when a referenced recipe does not exist.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrDuplicateFavorite is returned when the user already favorited the
	// recipe, including when a concurrent add won the race.
	ErrDuplicateFavorite = errors.New("recipe is already a favorite")

	// ErrForbidden is returned when the principal does not own the recipe.
	ErrForbidden = errors.New("you do not own this recipe")

	// ErrInappropriateContent is returned when user-authored text fails
	// moderation.
	ErrInappropriateContent = errors.New("recipe contains inappropriate content")

	// ErrUnauthenticated is returned when no principal was resolved.
	ErrUnauthenticated = errors.New("authentication required")
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
