package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/service"
	"github.com/windoze95/recipefinder-api/internal/testutil"
)

func newRecipeRouter(principal *models.Principal) (*gin.Engine, *testutil.MockRecipeRepo) {
	repo := testutil.NewMockRecipeRepo()
	handler := NewRecipeHandler(service.NewRecipeService(repo, testutil.NewMockImageStore()))

	r := gin.New()
	r.Use(setPrincipal(principal))
	r.POST("/recipes", handler.CreateRecipe)
	r.GET("/recipes", handler.ListRecipes)
	r.GET("/recipes/:recipe_id", handler.GetRecipe)
	r.PUT("/recipes/:recipe_id", handler.UpdateRecipe)
	r.DELETE("/recipes/:recipe_id", handler.DeleteRecipe)
	return r, repo
}

const recipeBody = `{"title":"Gazpacho","description":"Cold tomato soup","ingredients":["tomate","pepino"],
	"instructions":["Blend","Chill"],"cookingTime":15,"difficulty":"facil","servings":4,
	"dietaryRestrictions":{"vegan":true}}`

func TestCreateRecipe_Handler(t *testing.T) {
	r, repo := newRecipeRouter(testutil.TestPrincipal())

	w := doJSON(r, "POST", "/recipes", recipeBody)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201. body: %s", w.Code, w.Body.String())
	}
	recipe, _ := decodeBody(t, w)["recipe"].(map[string]interface{})
	if recipe["difficulty"] != "Easy" || recipe["createdBy"] != "user-1" {
		t.Errorf("recipe = %v", recipe)
	}
	if len(repo.Recipes) != 1 {
		t.Errorf("stored recipes = %d, want 1", len(repo.Recipes))
	}
}

func TestCreateRecipe_HandlerValidation(t *testing.T) {
	r, _ := newRecipeRouter(testutil.TestPrincipal())

	w := doJSON(r, "POST", "/recipes", `{"title":"Gazpacho"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if body := decodeBody(t, w); body["field"] == nil {
		t.Errorf("body = %v, want field name", body)
	}
}

func TestRecipeOwnership_Handler(t *testing.T) {
	r, repo := newRecipeRouter(testutil.OtherPrincipal())
	repo.CreateRecipe(context.Background(), testutil.TestRecipe("r1"))

	tests := []struct {
		method string
		body   string
	}{
		{"GET", ""},
		{"PUT", recipeBody},
		{"DELETE", ""},
	}
	for _, tt := range tests {
		if w := doJSON(r, tt.method, "/recipes/r1", tt.body); w.Code != http.StatusForbidden {
			t.Errorf("%s status = %d, want 403", tt.method, w.Code)
		}
	}
	if _, ok := repo.Recipes["r1"]; !ok {
		t.Error("recipe was deleted by a non-owner")
	}
}

func TestRecipeLifecycle_Handler(t *testing.T) {
	r, repo := newRecipeRouter(testutil.TestPrincipal())
	repo.CreateRecipe(context.Background(), testutil.TestRecipe("r1"))

	if w := doJSON(r, "GET", "/recipes/r1", ""); w.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200", w.Code)
	}
	if w := doJSON(r, "PUT", "/recipes/r1", recipeBody); w.Code != http.StatusOK {
		t.Errorf("PUT status = %d, want 200. body: %s", w.Code, w.Body.String())
	}
	if repo.Recipes["r1"].Title != "Gazpacho" {
		t.Errorf("Title = %q, want Gazpacho", repo.Recipes["r1"].Title)
	}

	w := doJSON(r, "GET", "/recipes", "")
	if recipes, _ := decodeBody(t, w)["recipes"].([]interface{}); len(recipes) != 1 {
		t.Errorf("list = %v, want 1 recipe", recipes)
	}

	if w := doJSON(r, "DELETE", "/recipes/r1", ""); w.Code != http.StatusOK {
		t.Errorf("DELETE status = %d, want 200", w.Code)
	}
	if w := doJSON(r, "GET", "/recipes/r1", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", w.Code)
	}
}
