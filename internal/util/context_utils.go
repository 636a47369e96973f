package util

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/models"
)

// Gin context keys set by the auth middleware.
const (
	UserIDKey    = "user_id"
	EmailKey     = "email"
	PrincipalKey = "principal"
)

// GetPrincipalFromContext gets the authenticated principal from the context.
func GetPrincipalFromContext(c *gin.Context) (*models.Principal, error) {
	val, ok := c.Get(PrincipalKey)
	if !ok || val == nil {
		return nil, errors.New("no principal information")
	}

	principal, ok := val.(*models.Principal)
	if !ok || principal == nil {
		return nil, errors.New("principal information is of the wrong type")
	}

	return principal, nil
}

// GetUserIDFromContext gets the user ID from the context.
func GetUserIDFromContext(c *gin.Context) (string, error) {
	val, ok := c.Get(UserIDKey)
	if !ok {
		return "", errors.New("no user ID information")
	}

	userID, ok := val.(string)
	if !ok || userID == "" {
		return "", errors.New("user ID information is of the wrong type")
	}

	return userID, nil
}
