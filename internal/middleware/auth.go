package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"task-management-system/internal/constants"
	apierrors "task-management-system/internal/errors"
	"task-management-system/internal/models"
	"task-management-system/internal/repository"
	"task-management-system/internal/services"
)

// RequireAuth validates the bearer token and loads the current user, with
// role preloaded, into the context. The user is reloaded on every request so
// revoked accounts and role changes bite immediately.
func RequireAuth(authService *services.AuthService, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			apierrors.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := authService.ParseToken(parts[1])
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// GetCurrentUser returns the authenticated user stored by RequireAuth.
func GetCurrentUser(c *gin.Context) *models.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
