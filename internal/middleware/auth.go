package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/openflock/backend/internal/auth"
	"github.com/openflock/backend/internal/database"
	"github.com/openflock/backend/internal/models"
	"github.com/openflock/backend/internal/util"
)

// RequireAuth verifies the bearer token and resolves the acting user,
// setting "user_id" and "user" on the context for downstream handlers
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			util.RespondUnauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		userID, err := authService.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			util.RespondUnauthorized(c, "invalid token")
			c.Abort()
			return
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
			util.RespondUnauthorized(c, "account no longer exists")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("user", &user)
		c.Next()
	}
}
