package validation

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/windoze95/recipefinder-api/internal/models"
)

// RecipeCandidate is a recipe as supplied by an untrusted source: an LLM
// response element, or a client echoing a search result back on favorite.
type RecipeCandidate struct {
	ID                  string                      `json:"id" validate:"notblank,max=64"`
	Title               string                      `json:"title" validate:"notblank,max=255"`
	Description         string                      `json:"description" validate:"notblank"`
	Ingredients         []string                    `json:"ingredients" validate:"required,min=1,dive,notblank"`
	Instructions        []string                    `json:"instructions" validate:"required,min=1,dive,notblank"`
	CookingTime         *WholeNumber                `json:"cookingTime" validate:"required,min=0"`
	Difficulty          string                      `json:"difficulty" validate:"notblank"`
	Servings            *WholeNumber                `json:"servings,omitempty" validate:"omitempty,min=1"`
	ImageURL            string                      `json:"imageUrl,omitempty" validate:"omitempty,url"`
	DietaryRestrictions *models.DietaryRestrictions `json:"dietaryRestrictions,omitempty"`
}

// WholeNumber accepts a JSON number with no fractional part, or a string
// holding one ("25").
type WholeNumber int

// UnmarshalJSON implements json.Unmarshaler.
func (n *WholeNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("expected a whole number, got %q", s)
		}
		*n = WholeNumber(v)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("expected a whole number, got %s", data)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return fmt.Errorf("expected a whole number, got %s", data)
	}
	*n = WholeNumber(int(f))
	return nil
}

// CandidateFromRecipe is the inverse of ValidateCandidate.
func CandidateFromRecipe(r *models.Recipe) RecipeCandidate {
	cookingTime := WholeNumber(r.CookingTime)
	servings := WholeNumber(r.Servings)
	dietary := r.DietaryRestrictions
	return RecipeCandidate{
		ID:                  r.ID,
		Title:               r.Title,
		Description:         r.Description,
		Ingredients:         r.Ingredients,
		Instructions:        r.Instructions,
		CookingTime:         &cookingTime,
		Difficulty:          string(r.Difficulty),
		Servings:            &servings,
		ImageURL:            r.ImageURL,
		DietaryRestrictions: &dietary,
	}
}

// ValidateCandidate checks c field by field and returns the recipe it
// describes, with difficulty normalized and servings defaulted to 1. Owner
// and timestamps are left unset. The error is a *FieldError.
func ValidateCandidate(c RecipeCandidate) (*models.Recipe, error) {
	if err := validateStruct(&c); err != nil {
		return nil, err
	}

	difficulty, ok := NormalizeDifficulty(c.Difficulty)
	if !ok {
		return nil, &FieldError{Field: "difficulty", Message: fmt.Sprintf("unrecognized value %q", c.Difficulty)}
	}

	recipe := &models.Recipe{
		ID:           strings.TrimSpace(c.ID),
		Title:        strings.TrimSpace(c.Title),
		Description:  strings.TrimSpace(c.Description),
		Ingredients:  trimList(c.Ingredients),
		Instructions: trimList(c.Instructions),
		CookingTime:  int(*c.CookingTime),
		Difficulty:   difficulty,
		Servings:     1,
		ImageURL:     strings.TrimSpace(c.ImageURL),
	}
	if c.Servings != nil && *c.Servings > 0 {
		recipe.Servings = int(*c.Servings)
	}
	if c.DietaryRestrictions != nil {
		recipe.DietaryRestrictions = *c.DietaryRestrictions
		recipe.DietaryRestrictions.Other = trimList(c.DietaryRestrictions.Other)
	}
	return recipe, nil
}

func trimList(in []string) models.StringList {
	if in == nil {
		return nil
	}
	out := make(models.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
