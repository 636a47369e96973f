package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/service"
	"github.com/windoze95/recipefinder-api/internal/validation"
)

// RecipeHandler is the handler for recipe-related requests.
type RecipeHandler struct {
	Service *service.RecipeService
}

// NewRecipeHandler is the constructor function for initializing a new RecipeHandler.
func NewRecipeHandler(recipeService *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{Service: recipeService}
}

// CreateRecipe handles POST /v1/recipes
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var candidate validation.RecipeCandidate
	if err := readJSON(c, &candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe body"})
		return
	}

	recipe, err := h.Service.CreateRecipe(c.Request.Context(), principal, candidate)
	if err != nil {
		respondError(c, err, "Failed to create recipe")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"recipe": recipe})
}

// ListRecipes returns the authenticated user's recipes.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	recipes, err := h.Service.ListUserRecipes(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "failed to list recipes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns one of the user's recipes by ID.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	recipe, err := h.Service.GetRecipe(c.Request.Context(), principal, c.Param("recipe_id"))
	if err != nil {
		respondError(c, err, "Failed to get recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// UpdateRecipe handles PUT /v1/recipes/:recipe_id
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var candidate validation.RecipeCandidate
	if err := readJSON(c, &candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid recipe body"})
		return
	}

	recipe, err := h.Service.UpdateRecipe(c.Request.Context(), principal, c.Param("recipe_id"), candidate)
	if err != nil {
		respondError(c, err, "Failed to update recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// DeleteRecipe handles DELETE /v1/recipes/:recipe_id
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := h.Service.DeleteRecipe(c.Request.Context(), principal, c.Param("recipe_id")); err != nil {
		respondError(c, err, "Failed to delete recipe")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully"})
}
