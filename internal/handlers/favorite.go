package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/service"
	"github.com/windoze95/recipefinder-api/internal/util"
	"github.com/windoze95/recipefinder-api/internal/validation"
)

// FavoriteHandler handles favorite requests.
type FavoriteHandler struct {
	Service *service.FavoriteService
}

// NewFavoriteHandler creates a new FavoriteHandler.
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{Service: favoriteService}
}

// addFavoriteRequest is the optional body of AddFavorite. Recipe carries a
// semantic search result the client wants saved.
type addFavoriteRequest struct {
	Recipe *validation.RecipeCandidate `json:"recipe"`
}

// AddFavorite handles POST /v1/favorites/:recipe_id
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req addFavoriteRequest
	if err := readJSON(c, &req); err != nil && !errors.Is(err, util.ErrEmptyBody) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	favorite, err := h.Service.AddFavorite(c.Request.Context(), principal, c.Param("recipe_id"), req.Recipe)
	if err != nil {
		respondError(c, err, "Failed to add favorite")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// RemoveFavorite handles DELETE /v1/favorites/:recipe_id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := h.Service.RemoveFavorite(c.Request.Context(), principal, c.Param("recipe_id")); err != nil {
		respondError(c, err, "Failed to remove favorite")
		return
	}

	c.Status(http.StatusNoContent)
}

// CheckFavorite handles GET /v1/favorites/:recipe_id/check
func (h *FavoriteHandler) CheckFavorite(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	isFavorite, err := h.Service.IsFavorite(c.Request.Context(), principal, c.Param("recipe_id"))
	if err != nil {
		respondError(c, err, "Failed to check favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}

// ListFavorites handles GET /v1/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	favorites, err := h.Service.ListFavorites(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err, "Failed to list favorites")
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}
