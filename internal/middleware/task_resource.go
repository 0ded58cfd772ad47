package middleware

import (
	"github.com/gin-gonic/gin"

	"task-management-system/internal/constants"
	apierrors "task-management-system/internal/errors"
	"task-management-system/internal/repository"
)

// ResolveTaskOrganization looks up the organization of the task named by the
// :id route param and stores it for the permission gate. A task that does
// not exist gets the same generic denial as one the caller may not touch.
func ResolveTaskOrganization(taskRepo repository.TaskRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		taskID := c.Param("id")
		if taskID == "" {
			c.Next()
			return
		}

		organizationID, err := taskRepo.OrganizationIDByTaskID(taskID)
		if err != nil {
			apierrors.AccessDenied(c)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyOrganizationID, organizationID)
		c.Next()
	}
}
