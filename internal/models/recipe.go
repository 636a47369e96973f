package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// MaxRecipeIDLength bounds client-supplied recipe identifiers.
const MaxRecipeIDLength = 64

// Recipe is the model for a recipe.
type Recipe struct {
	ID                  string              `gorm:"primaryKey;size:64" json:"id"`
	Title               string              `gorm:"size:255;not null" json:"title"`
	Description         string              `gorm:"type:text;not null" json:"description"`
	Ingredients         StringList          `gorm:"type:text;serializer:json" json:"ingredients"`
	Instructions        StringList          `gorm:"type:text;serializer:json" json:"instructions"`
	CookingTime         int                 `gorm:"not null;default:0;index" json:"cookingTime"`
	Difficulty          Difficulty          `gorm:"size:16;not null;index" json:"difficulty"`
	Servings            int                 `gorm:"not null;default:1" json:"servings"`
	ImageURL            string              `gorm:"size:1024" json:"imageUrl,omitempty"`
	DietaryRestrictions DietaryRestrictions `gorm:"embedded;embeddedPrefix:dietary_" json:"dietaryRestrictions"`
	CreatedBy           string              `gorm:"size:64;index" json:"createdBy,omitempty"`
	CreatedAt           time.Time           `gorm:"index" json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

// DietaryRestrictions holds the dietary flags of a recipe.
type DietaryRestrictions struct {
	Vegetarian bool       `gorm:"not null;default:false" json:"vegetarian"`
	Vegan      bool       `gorm:"not null;default:false" json:"vegan"`
	GlutenFree bool       `gorm:"not null;default:false" json:"glutenFree"`
	DairyFree  bool       `gorm:"not null;default:false" json:"dairyFree"`
	NutFree    bool       `gorm:"not null;default:false" json:"nutFree"`
	Other      StringList `gorm:"type:text;serializer:json" json:"other,omitempty"`
}

// StringList is an ordered list of strings persisted as a JSON array.
type StringList []string

// Contains reports whether any element equals s, ignoring case and
// surrounding whitespace.
func (l StringList) Contains(s string) bool {
	want := strings.TrimSpace(s)
	for _, v := range l {
		if strings.EqualFold(strings.TrimSpace(v), want) {
			return true
		}
	}
	return false
}

// Difficulty is the type for the Difficulty enum.
type Difficulty string

// Difficulty enum values.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsValid checks if the Difficulty is one of the canonical values.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

// Validate checks the recipe invariants that must hold before persisting.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return errors.New("recipe id is required")
	}
	if len(r.ID) > MaxRecipeIDLength {
		return errors.New("recipe id is too long")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("recipe title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("recipe description is required")
	}
	if r.CookingTime < 0 {
		return errors.New("recipe cooking time must not be negative")
	}
	if !r.Difficulty.IsValid() {
		return errors.New("invalid recipe difficulty")
	}
	if r.Servings < 1 {
		return errors.New("recipe servings must be positive")
	}
	return nil
}

// BeforeSave is a GORM hook that runs before creating or updating a Recipe.
func (r *Recipe) BeforeSave(tx *gorm.DB) (err error) {
	if r.Servings == 0 {
		r.Servings = 1
	}
	// Cancel transaction on invalid data
	return r.Validate()
}
