package services

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"task-management-system/internal/models"
	"task-management-system/internal/repository"
)

// Service errors. ErrTaskNotFound and ErrAccessDenied are reported to
// clients identically so task IDs cannot be probed.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrAccessDenied  = errors.New("access denied")
	ErrInvalidStatus = errors.New("invalid task status")
)

// reorderSpread is added on top of the column maximum during the first
// reorder phase so no intermediate order value can collide with a live one.
const reorderSpread = 10

// TaskService handles task business logic: scoped listing, lifecycle and
// the order-preserving reorder.
type TaskService struct {
	taskRepo    repository.TaskRepository
	roleRepo    repository.RoleRepository
	orgRepo     repository.OrganizationRepository
	permissions *PermissionService
	audit       *AuditService
	logger      *logrus.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	taskRepo repository.TaskRepository,
	roleRepo repository.RoleRepository,
	orgRepo repository.OrganizationRepository,
	permissions *PermissionService,
	audit *AuditService,
	logger *logrus.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		roleRepo:    roleRepo,
		orgRepo:     orgRepo,
		permissions: permissions,
		audit:       audit,
		logger:      logger,
	}
}

// ListTasksInput holds the optional filters for listing tasks.
type ListTasksInput struct {
	Status         *models.TaskStatus
	Category       *models.TaskCategory
	Priority       *models.TaskPriority
	OwnerID        *string
	OrganizationID *string
	Page           int
	PageSize       int
}

// CreateTaskInput holds the input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    *string
	Status         *models.TaskStatus
	Category       *models.TaskCategory
	Priority       *models.TaskPriority
	OrganizationID *string
}

// UpdateTaskInput holds the input for updating a task. Nil fields stay
// untouched. The owning organization of a task never changes.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Category    *models.TaskCategory
	Priority    *models.TaskPriority
}

// roleStrength classifies the user's role. The auth middleware preloads the
// role relation; the repository lookup is a fallback for callers that pass a
// bare user.
func (s *TaskService) roleStrength(user *models.User) (models.RoleStrength, error) {
	name := user.RoleName()
	if name == "" {
		role, err := s.roleRepo.FindByID(user.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.StrengthCustom, nil
			}
			return models.StrengthCustom, fmt.Errorf("failed to find role: %w", err)
		}
		name = role.Name
	}
	return models.StrengthOf(name), nil
}

// List returns the tasks visible to the user. Owners see their whole
// subtree, admins their own organization, everyone else only tasks they
// own. Filters can only narrow that scope, never widen it.
func (s *TaskService) List(user *models.User, input ListTasksInput) ([]models.Task, int64, error) {
	strength, err := s.roleStrength(user)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		Status:   input.Status,
		Category: input.Category,
		Priority: input.Priority,
		Page:     input.Page,
		PageSize: input.PageSize,
	}

	switch strength {
	case models.StrengthOwner:
		accessible, err := s.permissions.AccessibleOrganizationIDs(user.OrganizationID)
		if err != nil {
			return nil, 0, err
		}
		if input.OrganizationID != nil {
			if !containsString(accessible, *input.OrganizationID) {
				return nil, 0, ErrAccessDenied
			}
			filter.OrganizationIDs = []string{*input.OrganizationID}
		} else {
			filter.OrganizationIDs = accessible
		}
		filter.OwnerID = input.OwnerID

	case models.StrengthAdmin:
		if input.OrganizationID != nil && *input.OrganizationID != user.OrganizationID {
			return nil, 0, ErrAccessDenied
		}
		filter.OrganizationIDs = []string{user.OrganizationID}
		filter.OwnerID = input.OwnerID

	default:
		// Viewers and custom roles only ever see their own tasks.
		if input.OwnerID != nil && *input.OwnerID != user.ID {
			return nil, 0, ErrAccessDenied
		}
		if input.OrganizationID != nil {
			allowed, err := s.permissions.HasOrganizationAccess(user.OrganizationID, *input.OrganizationID)
			if err != nil {
				return nil, 0, err
			}
			if !allowed {
				return nil, 0, ErrAccessDenied
			}
		}
		ownerID := user.ID
		filter.OwnerID = &ownerID
	}

	return s.taskRepo.List(filter)
}

// Get returns a single task if the user may see it. A missing task and a
// forbidden task are the same error.
func (s *TaskService) Get(user *models.User, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Owner")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if err := s.checkTaskAccess(task, user, false); err != nil {
		return nil, err
	}
	return task, nil
}

// Create creates a task owned by the user. Owners may create anywhere in
// their subtree; admins only in their own organization. The order value is
// assigned transactionally past the organization maximum.
func (s *TaskService) Create(user *models.User, input CreateTaskInput) (*models.Task, error) {
	strength, err := s.roleStrength(user)
	if err != nil {
		return nil, err
	}

	targetOrgID := user.OrganizationID
	if input.OrganizationID != nil && *input.OrganizationID != "" {
		targetOrgID = *input.OrganizationID
	}

	// Admins never create outside their exact organization, not even in
	// descendants. Every other band gets the reachability check; the
	// permission gate upstream keeps viewers out in the normal case.
	if strength == models.StrengthAdmin {
		if targetOrgID != user.OrganizationID {
			return nil, ErrAccessDenied
		}
	} else {
		allowed, err := s.permissions.HasOrganizationAccess(user.OrganizationID, targetOrgID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, ErrAccessDenied
		}
	}

	status := models.TaskStatusPending
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		status = *input.Status
	}
	priority := models.TaskPriorityMedium
	if input.Priority != nil {
		priority = *input.Priority
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         status,
		Category:       input.Category,
		Priority:       priority,
		OwnerID:        user.ID,
		OrganizationID: targetOrgID,
	}

	if err := s.taskRepo.CreateWithOrder(task); err != nil {
		return nil, err
	}

	s.audit.Dispatch(user.ID, ActionTaskCreated, ResourceTask, task.ID, map[string]interface{}{
		"title":  task.Title,
		"status": task.Status,
	})

	return task, nil
}

// Update applies the non-nil fields of input to a task the user may modify.
// Changing status moves the task to the end of its destination column so
// order values stay unique there.
func (s *TaskService) Update(user *models.User, taskID string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if err := s.checkTaskAccess(task, user, true); err != nil {
		return nil, err
	}

	if input.Title != nil {
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.Category != nil {
		task.Category = input.Category
	}
	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	statusChanged := false
	if input.Status != nil && *input.Status != task.Status {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		statusChanged = true
	}

	if !statusChanged {
		if err := s.taskRepo.Save(task); err != nil {
			return nil, err
		}
	} else {
		err := s.taskRepo.Transaction(func(txRepo repository.TaskRepository) error {
			dest, err := txRepo.ListColumn(task.OrganizationID, task.OwnerID, *input.Status)
			if err != nil {
				return err
			}
			next := 0
			if len(dest) > 0 {
				next = dest[len(dest)-1].Order + 1
			}
			task.Status = *input.Status
			task.Order = next
			return txRepo.Save(task)
		})
		if err != nil {
			return nil, err
		}
	}

	s.audit.Dispatch(user.ID, ActionTaskUpdated, ResourceTask, task.ID, map[string]interface{}{
		"title":  task.Title,
		"status": task.Status,
	})

	return task, nil
}

// Delete removes a task the user may modify. The surviving column keeps its
// gap; ordering is relative so gaps are harmless.
func (s *TaskService) Delete(user *models.User, taskID string) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return err
	}
	if err := s.checkTaskAccess(task, user, true); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(task); err != nil {
		return err
	}

	s.audit.Dispatch(user.ID, ActionTaskDeleted, ResourceTask, task.ID, map[string]interface{}{
		"title": task.Title,
	})

	return nil
}

// Reorder moves a task to targetIndex within its (organization, owner,
// status) column and compacts the column to a clean 0..n-1 sequence. The
// whole operation runs in one transaction and writes in two phases: every
// task is first parked above the column maximum, then assigned its final
// position, so the order uniqueness constraint holds after each statement.
// Moving a task to its current position is a no-op.
func (s *TaskService) Reorder(user *models.User, taskID string, targetIndex int) (*models.Task, error) {
	var reordered *models.Task

	err := s.taskRepo.Transaction(func(txRepo repository.TaskRepository) error {
		task, err := txRepo.FindByID(taskID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTaskNotFound
			}
			return err
		}
		if err := s.checkTaskAccess(task, user, true); err != nil {
			return err
		}

		column, err := txRepo.ListColumn(task.OrganizationID, task.OwnerID, task.Status)
		if err != nil {
			return err
		}

		currentIndex := -1
		for i := range column {
			if column[i].ID == task.ID {
				currentIndex = i
				break
			}
		}
		if currentIndex == -1 {
			return fmt.Errorf("task %s missing from its own column", task.ID)
		}

		// Clamp to [0, len]: a target equal to the column length means
		// "drop after the current last element".
		if targetIndex < 0 {
			targetIndex = 0
		}
		if targetIndex > len(column) {
			targetIndex = len(column)
		}

		if targetIndex == currentIndex {
			reordered = task
			return nil
		}

		maxOrder := column[len(column)-1].Order

		moved := column[currentIndex]
		column = append(column[:currentIndex], column[currentIndex+1:]...)
		insertAt := targetIndex
		if insertAt > len(column) {
			insertAt = len(column)
		}
		column = append(column[:insertAt], append([]models.Task{moved}, column[insertAt:]...)...)

		// Phase one: park everything above the old maximum.
		for i := range column {
			if err := txRepo.UpdateOrder(column[i].ID, maxOrder+len(column)+reorderSpread+i); err != nil {
				return err
			}
		}
		// Phase two: collapse to the final 0..n-1 sequence.
		for i := range column {
			if err := txRepo.UpdateOrder(column[i].ID, i); err != nil {
				return err
			}
		}

		task.Order = targetIndex
		reordered = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Dispatch(user.ID, ActionTaskReordered, ResourceTask, reordered.ID, map[string]interface{}{
		"order": reordered.Order,
	})

	return reordered, nil
}

// FixDuplicateOrders repairs every column of every organization whose order
// values drifted from the 0..n-1 sequence over their creation order. Columns
// that are already correct are left alone; a column needing any change is
// rewritten with the same two-phase technique Reorder uses.
func (s *TaskService) FixDuplicateOrders() (int, error) {
	orgs, err := s.orgRepo.ListAll()
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, org := range orgs {
		tasks, err := s.taskRepo.ListByOrganization(org.ID)
		if err != nil {
			return fixed, err
		}

		type columnKey struct {
			ownerID string
			status  models.TaskStatus
		}
		columns := make(map[columnKey][]models.Task)
		for _, task := range tasks {
			key := columnKey{ownerID: task.OwnerID, status: task.Status}
			columns[key] = append(columns[key], task)
		}

		for _, column := range columns {
			// Tasks arrive in creation order already.
			dirty := false
			maxOrder := 0
			for i := range column {
				if column[i].Order != i {
					dirty = true
				}
				if column[i].Order > maxOrder {
					maxOrder = column[i].Order
				}
			}
			if !dirty {
				continue
			}

			column := column
			err := s.taskRepo.Transaction(func(txRepo repository.TaskRepository) error {
				for i := range column {
					if err := txRepo.UpdateOrder(column[i].ID, maxOrder+len(column)+reorderSpread+i); err != nil {
						return err
					}
				}
				for i := range column {
					if err := txRepo.UpdateOrder(column[i].ID, i); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return fixed, err
			}

			fixed++
			s.logger.WithFields(logrus.Fields{
				"organization_id": org.ID,
				"owner_id":        column[0].OwnerID,
				"status":          column[0].Status,
				"tasks":           len(column),
			}).Info("repaired task order sequence")
		}
	}

	return fixed, nil
}

// checkTaskAccess decides whether the user may read or, when write is set,
// modify the task. Viewers and custom roles can read their own tasks and
// modify nothing; admins stay inside their organization; owners reach their
// whole subtree.
func (s *TaskService) checkTaskAccess(task *models.Task, user *models.User, write bool) error {
	strength, err := s.roleStrength(user)
	if err != nil {
		return err
	}

	switch strength {
	case models.StrengthOwner:
		allowed, err := s.permissions.HasOrganizationAccess(user.OrganizationID, task.OrganizationID)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrAccessDenied
		}
		return nil

	case models.StrengthAdmin:
		if task.OrganizationID != user.OrganizationID {
			return ErrAccessDenied
		}
		return nil

	default:
		if write {
			return ErrAccessDenied
		}
		if task.OwnerID != user.ID {
			return ErrAccessDenied
		}
		return nil
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
