package dto

import (
	"time"

	"task-management-system/internal/models"
	"task-management-system/internal/utils"
)

// AuditLogResponse is the outward shape of an audit entry.
type AuditLogResponse struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	User       *UserResponse `json:"user,omitempty"`
	Action     string        `json:"action"`
	Resource   string        `json:"resource"`
	ResourceID *string       `json:"resourceId"`
	Details    *string       `json:"details"`
	Timestamp  time.Time     `json:"timestamp"`
}

// AuditLogResponseFromModel converts an audit log model to its response
// shape.
func AuditLogResponseFromModel(log *models.AuditLog) AuditLogResponse {
	resp := AuditLogResponse{
		ID:         log.ID,
		UserID:     log.UserID,
		Action:     log.Action,
		Resource:   log.Resource,
		ResourceID: log.ResourceID,
		Details:    log.Details,
		Timestamp:  log.Timestamp,
	}
	if log.User != nil {
		user := UserResponseFromModel(log.User)
		resp.User = &user
	}
	return resp
}

// AuditLogListResponse is a page of audit entries with pagination metadata.
type AuditLogListResponse struct {
	Data       []AuditLogResponse       `json:"data"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
