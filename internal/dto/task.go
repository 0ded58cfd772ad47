package dto

import (
	"time"

	"task-management-system/internal/models"
	"task-management-system/internal/utils"
)

// CreateTaskRequest is the payload for creating a task. OrganizationID is
// optional and defaults to the caller's own organization.
type CreateTaskRequest struct {
	Title          string  `json:"title" binding:"required,max=255"`
	Description    *string `json:"description"`
	Status         *string `json:"status" binding:"omitempty,oneof=pending in-progress in-review completed on-hold"`
	Category       *string `json:"category" binding:"omitempty,oneof=Work Personal"`
	Priority       *string `json:"priority" binding:"omitempty,oneof=low medium high"`
	OrganizationID *string `json:"organizationId"`
}

// UpdateTaskRequest is the payload for updating a task. Absent fields are
// left untouched; the owning organization cannot be changed.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=pending in-progress in-review completed on-hold"`
	Category    *string `json:"category" binding:"omitempty,oneof=Work Personal"`
	Priority    *string `json:"priority" binding:"omitempty,oneof=low medium high"`
}

// ReorderTaskRequest is the payload for moving a task within its column.
// Out-of-range targets are clamped, not rejected.
type ReorderTaskRequest struct {
	Order int `json:"order"`
}

// TaskResponse is the outward shape of a task.
type TaskResponse struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    *string       `json:"description"`
	Status         string        `json:"status"`
	Category       *string       `json:"category"`
	Priority       string        `json:"priority"`
	Order          int           `json:"order"`
	OwnerID        string        `json:"ownerId"`
	Owner          *UserResponse `json:"owner,omitempty"`
	OrganizationID string        `json:"organizationId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TaskResponseFromModel converts a task model to its response shape.
func TaskResponseFromModel(task *models.Task) TaskResponse {
	resp := TaskResponse{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         string(task.Status),
		Priority:       string(task.Priority),
		Order:          task.Order,
		OwnerID:        task.OwnerID,
		OrganizationID: task.OrganizationID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}
	if task.Category != nil {
		category := string(*task.Category)
		resp.Category = &category
	}
	if task.Owner != nil {
		owner := UserResponseFromModel(task.Owner)
		resp.Owner = &owner
	}
	return resp
}

// TaskListResponse is a page of tasks with pagination metadata.
type TaskListResponse struct {
	Data       []TaskResponse           `json:"data"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
