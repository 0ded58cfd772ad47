package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-management-system/internal/dto"
	apierrors "task-management-system/internal/errors"
	"task-management-system/internal/middleware"
	"task-management-system/internal/services"
	"task-management-system/internal/utils"
)

// AuditHandler handles audit trail endpoints.
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List handles GET /api/audit-log.
func (h *AuditHandler) List(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	pagination := utils.GetPaginationParams(c)
	input := services.ListAuditLogsInput{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}

	if v := c.Query("userId"); v != "" {
		input.UserID = &v
	}
	if v := c.Query("action"); v != "" {
		input.Action = &v
	}
	if v := c.Query("resource"); v != "" {
		input.Resource = &v
	}
	if v := c.Query("resourceId"); v != "" {
		input.ResourceID = &v
	}
	if v := c.Query("startDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.BadRequest(c, "startDate must be RFC 3339")
			return
		}
		input.StartDate = &t
	}
	if v := c.Query("endDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.BadRequest(c, "endDate must be RFC 3339")
			return
		}
		input.EndDate = &t
	}

	logs, total, err := h.auditService.List(user, input)
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	data := make([]dto.AuditLogResponse, 0, len(logs))
	for i := range logs {
		data = append(data, dto.AuditLogResponseFromModel(&logs[i]))
	}

	c.JSON(http.StatusOK, dto.AuditLogListResponse{
		Data: data,
		Pagination: utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}
