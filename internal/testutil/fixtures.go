package testutil

import (
	"time"

	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/validation"
)

// TestPrincipal returns the authenticated user most tests act as.
func TestPrincipal() *models.Principal {
	return &models.Principal{ID: "user-1", Email: "user1@example.com"}
}

// OtherPrincipal returns a second user, for ownership checks.
func OtherPrincipal() *models.Principal {
	return &models.Principal{ID: "user-2", Email: "user2@example.com"}
}

// TestRecipe creates a valid stored recipe with the given ID.
func TestRecipe(id string) *models.Recipe {
	return &models.Recipe{
		ID:           id,
		Title:        "Tortilla de patatas",
		Description:  "Classic Spanish potato omelette",
		Ingredients:  models.StringList{"huevos", "patatas", "cebolla", "aceite de oliva"},
		Instructions: models.StringList{"Fry the potatoes", "Beat the eggs", "Combine and set"},
		CookingTime:  30,
		Difficulty:   models.DifficultyMedium,
		Servings:     4,
		DietaryRestrictions: models.DietaryRestrictions{
			Vegetarian: true,
			GlutenFree: true,
		},
		CreatedBy: "user-1",
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// TestCandidate returns a valid candidate as a client would echo it back
// from a semantic search.
func TestCandidate(id string) validation.RecipeCandidate {
	cookingTime := validation.WholeNumber(15)
	return validation.RecipeCandidate{
		ID:           id,
		Title:        "Huevos revueltos",
		Description:  "Soft scrambled eggs",
		Ingredients:  []string{"huevos", "sal", "mantequilla"},
		Instructions: []string{"Whisk", "Cook gently"},
		CookingTime:  &cookingTime,
		Difficulty:   "fácil",
	}
}

// SemanticResponse is a well-formed LLM reply holding two recipes.
const SemanticResponse = `[
  {"id": "sem-1", "title": "Pasta al pomodoro", "description": "Quick tomato pasta",
   "ingredients": ["pasta", "tomate", "ajo"], "instructions": ["Boil pasta", "Make sauce"],
   "cookingTime": 20, "difficulty": "Easy"},
  {"id": "sem-2", "title": "Ensalada caprese", "description": "Tomato and mozzarella salad",
   "ingredients": ["tomate", "mozzarella", "albahaca"], "instructions": ["Slice", "Assemble"],
   "cookingTime": 10, "difficulty": "fácil"}
]`
