package services

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"task-management-system/internal/models"
	"task-management-system/internal/repository"
)

// Audit action and resource names.
const (
	ActionTaskCreated   = "task.created"
	ActionTaskUpdated   = "task.updated"
	ActionTaskDeleted   = "task.deleted"
	ActionTaskReordered = "task.reordered"
	ActionUserRegister  = "user.registered"
	ActionUserLogin     = "user.login"

	ResourceTask = "task"
	ResourceUser = "user"
)

// AuditService records and queries the audit trail. Recording never blocks
// or fails the action being audited.
type AuditService struct {
	auditRepo   repository.AuditRepository
	permissions *PermissionService
	logger      *logrus.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(auditRepo repository.AuditRepository, permissions *PermissionService, logger *logrus.Logger) *AuditService {
	return &AuditService{
		auditRepo:   auditRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// Log writes one audit entry synchronously. Details are stored as JSON; a
// detail value that cannot marshal is dropped rather than failing the entry.
func (s *AuditService) Log(userID, action, resource string, resourceID string, details interface{}) error {
	entry := &models.AuditLog{
		UserID:   userID,
		Action:   action,
		Resource: resource,
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			text := string(raw)
			entry.Details = &text
		}
	}
	return s.auditRepo.Create(entry)
}

// Dispatch writes an audit entry in the background. Failures are logged and
// never reach the caller.
func (s *AuditService) Dispatch(userID, action, resource string, resourceID string, details interface{}) {
	go func() {
		if err := s.Log(userID, action, resource, resourceID, details); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"action":   action,
				"resource": resource,
			}).Warn("failed to write audit log")
		}
	}()
}

// ListAuditLogsInput holds the optional filters for querying the audit
// trail.
type ListAuditLogsInput struct {
	UserID     *string
	Action     *string
	Resource   *string
	ResourceID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Page       int
	PageSize   int
}

// List returns the audit entries visible to the user. Owners see entries
// authored anywhere in their subtree, admins those of their organization,
// and everyone else only their own.
func (s *AuditService) List(user *models.User, input ListAuditLogsInput) ([]models.AuditLog, int64, error) {
	filter := repository.AuditFilter{
		UserID:     input.UserID,
		Action:     input.Action,
		Resource:   input.Resource,
		ResourceID: input.ResourceID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	switch models.StrengthOf(user.RoleName()) {
	case models.StrengthOwner:
		accessible, err := s.permissions.AccessibleOrganizationIDs(user.OrganizationID)
		if err != nil {
			return nil, 0, err
		}
		filter.OrganizationIDs = accessible

	case models.StrengthAdmin:
		filter.OrganizationIDs = []string{user.OrganizationID}

	default:
		selfID := user.ID
		filter.RestrictToUserID = &selfID
	}

	return s.auditRepo.List(filter)
}
