package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"task-management-system/internal/dto"
	apierrors "task-management-system/internal/errors"
	"task-management-system/internal/middleware"
	"task-management-system/internal/models"
	"task-management-system/internal/services"
	"task-management-system/internal/utils"
)

// TaskHandler handles task endpoints.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// respondTaskError maps service errors onto HTTP responses. Missing and
// forbidden tasks intentionally collapse into the same denial.
func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, services.ErrAccessDenied):
		apierrors.AccessDenied(c)
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	pagination := utils.GetPaginationParams(c)
	input := services.ListTasksInput{
		Page:     pagination.Page,
		PageSize: pagination.Limit,
	}

	if v := c.Query("status"); v != "" {
		status := models.TaskStatus(v)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
		input.Status = &status
	}
	if v := c.Query("category"); v != "" {
		category := models.TaskCategory(v)
		input.Category = &category
	}
	if v := c.Query("priority"); v != "" {
		priority := models.TaskPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("ownerId"); v != "" {
		input.OwnerID = &v
	}
	if v := c.Query("organizationId"); v != "" {
		input.OrganizationID = &v
	}

	tasks, total, err := h.taskService.List(user, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	data := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		data = append(data, dto.TaskResponseFromModel(&tasks[i]))
	}

	c.JSON(http.StatusOK, dto.TaskListResponse{
		Data: data,
		Pagination: utils.PaginationResponse{
			Page:  pagination.Page,
			Limit: pagination.Limit,
			Total: total,
		},
	})
}

// Get handles GET /api/tasks/:id.
func (h *TaskHandler) Get(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	task, err := h.taskService.Get(user, c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskResponseFromModel(task))
}

// Create handles POST /api/tasks. The body is bound through the shared
// buffer the permission gate already read.
func (h *TaskHandler) Create(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		OrganizationID: req.OrganizationID,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Category != nil {
		category := models.TaskCategory(*req.Category)
		input.Category = &category
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Create(user, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TaskResponseFromModel(task))
}

// Update handles PUT /api/tasks/:id.
func (h *TaskHandler) Update(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Category != nil {
		category := models.TaskCategory(*req.Category)
		input.Category = &category
	}
	if req.Priority != nil {
		priority := models.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Update(user, c.Param("id"), input)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskResponseFromModel(task))
}

// Delete handles DELETE /api/tasks/:id.
func (h *TaskHandler) Delete(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.Delete(user, c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reorder handles PATCH /api/tasks/:id/reorder.
func (h *TaskHandler) Reorder(c *gin.Context) {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		apierrors.Unauthorized(c, "")
		return
	}

	var req dto.ReorderTaskRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		apierrors.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Reorder(user, c.Param("id"), req.Order)
	if err != nil {
		respondTaskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TaskResponseFromModel(task))
}
