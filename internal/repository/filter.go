package repository

import (
	"strings"

	"github.com/windoze95/recipefinder-api/internal/models"
	"gorm.io/gorm"
)

// DietaryFilter lists the dietary flags a recipe must carry. A false flag
// imposes no constraint.
type DietaryFilter struct {
	Vegetarian bool `json:"vegetarian"`
	Vegan      bool `json:"vegan"`
	GlutenFree bool `json:"glutenFree"`
	DairyFree  bool `json:"dairyFree"`
	NutFree    bool `json:"nutFree"`
}

// IsZero reports whether no flag is required.
func (d DietaryFilter) IsZero() bool {
	return d == DietaryFilter{}
}

// RecipeFilter is a store predicate over recipe attributes. All set criteria
// are ANDed; Ingredients matches when the recipe contains any of them.
type RecipeFilter struct {
	Ingredients    []string
	MaxCookingTime *int
	Difficulty     models.Difficulty
	Dietary        DietaryFilter
	NewestFirst    bool
}

// Apply narrows db to the recipes matching f.
func (f RecipeFilter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Recipe{})

	if ingredients := f.lowerIngredients(); len(ingredients) > 0 {
		q = q.Where(ingredientContainsClause(db.Dialector.Name()), ingredients)
	}
	if f.MaxCookingTime != nil {
		q = q.Where("cooking_time <= ?", *f.MaxCookingTime)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}

	flags := []struct {
		column   string
		required bool
	}{
		{"dietary_vegetarian", f.Dietary.Vegetarian},
		{"dietary_vegan", f.Dietary.Vegan},
		{"dietary_gluten_free", f.Dietary.GlutenFree},
		{"dietary_dairy_free", f.Dietary.DairyFree},
		{"dietary_nut_free", f.Dietary.NutFree},
	}
	for _, flag := range flags {
		if flag.required {
			q = q.Where(flag.column+" = ?", true)
		}
	}

	if f.NewestFirst {
		q = q.Order("created_at DESC").Order("id ASC")
	}
	return q
}

// Matches evaluates f against a single recipe in memory.
func (f RecipeFilter) Matches(r *models.Recipe) bool {
	if len(f.Ingredients) > 0 {
		found := false
		for _, ing := range f.Ingredients {
			if r.Ingredients.Contains(ing) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MaxCookingTime != nil && r.CookingTime > *f.MaxCookingTime {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}

	d := r.DietaryRestrictions
	switch {
	case f.Dietary.Vegetarian && !d.Vegetarian,
		f.Dietary.Vegan && !d.Vegan,
		f.Dietary.GlutenFree && !d.GlutenFree,
		f.Dietary.DairyFree && !d.DairyFree,
		f.Dietary.NutFree && !d.NutFree:
		return false
	}
	return true
}

func (f RecipeFilter) lowerIngredients() []string {
	out := make([]string, 0, len(f.Ingredients))
	for _, ing := range f.Ingredients {
		if s := strings.ToLower(strings.TrimSpace(ing)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ingredientContainsClause matches a recipe whose JSON ingredient array has
// at least one element in the bound list.
func ingredientContainsClause(dialect string) string {
	if dialect == "sqlite" {
		return "EXISTS (SELECT 1 FROM json_each(recipes.ingredients) AS ing WHERE lower(trim(ing.value)) IN ?)"
	}
	return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(recipes.ingredients::jsonb) AS ing(value) WHERE lower(trim(ing.value)) IN ?)"
}
