package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/models"
	"github.com/windoze95/recipefinder-api/internal/util"
	"go.uber.org/zap"
)

// AttachPrincipalToContext builds the request principal from the verified
// token claims. Requests without claims get a nil principal.
func AttachPrincipalToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := util.GetUserIDFromContext(c)
		if err != nil {
			c.Set(util.PrincipalKey, nil)
			c.Next()
			return
		}

		email := c.GetString(util.EmailKey)
		c.Set(util.PrincipalKey, &models.Principal{ID: userID, Email: email})
		logger.FromGin(c).Debug("resolved principal", zap.String("user_id", userID))
		c.Next()
	}
}
