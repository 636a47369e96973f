package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/service"
	"github.com/windoze95/recipefinder-api/internal/util"
	"go.uber.org/zap"
)

// principalOrAbort returns the request principal, answering 401 when there
// is none.
func principalOrAbort(c *gin.Context) (*models.Principal, bool) {
	principal, err := util.GetPrincipalFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, false
	}
	return principal, true
}

// statusForError maps a service error to its HTTP status.
func statusForError(err error) int {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr), errors.Is(err, service.ErrInappropriateContent):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrRecipeNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateFavorite):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal errors are logged and
// replaced by fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromGin(c).Error(fallback, zap.Error(err))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	body := gin.H{"error": publicMessage(err)}
	var vErr *service.ValidationError
	if errors.As(err, &vErr) && vErr.Field != "" {
		body["field"] = vErr.Field
	}
	c.JSON(status, body)
}

func publicMessage(err error) string {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		return vErr.Error()
	case errors.Is(err, service.ErrRecipeNotFound):
		return "Recipe not found"
	case errors.Is(err, service.ErrDuplicateFavorite):
		return "Recipe is already in favorites"
	case errors.Is(err, service.ErrForbidden):
		return "You can only modify your own recipes"
	case errors.Is(err, service.ErrInappropriateContent):
		return "Recipe contains inappropriate content"
	case errors.Is(err, service.ErrUnauthenticated):
		return "unauthorized"
	default:
		return err.Error()
	}
}

// readJSON decodes the request body into v.
func readJSON(c *gin.Context, v interface{}) error {
	body, err := c.GetRawData()
	if err != nil {
		return err
	}
	return util.DeserializeJSONBody(body, v)
}
