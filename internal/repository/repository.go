package repository

import (
	"time"

	"task-management-system/internal/models"
)

// TaskFilter holds filtering options for listing tasks. OrganizationIDs and
// OwnerID carry the caller's already-authorized scope; the repository does
// not make authorization decisions.
type TaskFilter struct {
	OrganizationIDs []string
	OwnerID         *string
	Status          *models.TaskStatus
	Category        *models.TaskCategory
	Priority        *models.TaskPriority
	Page            int
	PageSize        int
}

// AuditFilter holds filtering options for listing audit logs.
type AuditFilter struct {
	// OrganizationIDs scopes results to logs written by users of these
	// organizations.
	OrganizationIDs []string
	// RestrictToUserID, when set, limits results to one author regardless of
	// other filters.
	RestrictToUserID *string
	UserID           *string
	Action           *string
	Resource         *string
	ResourceID       *string
	StartDate        *time.Time
	EndDate          *time.Time
	Page             int
	PageSize         int
}

// OrganizationRepository defines the interface for organization data access.
type OrganizationRepository interface {
	// FindByID finds an organization by ID
	FindByID(id string) (*models.Organization, error)

	// ListChildren lists the direct children of an organization
	ListChildren(parentID string) ([]models.Organization, error)

	// ListAll lists every organization
	ListAll() ([]models.Organization, error)
}

// RoleRepository defines the interface for role data access.
type RoleRepository interface {
	// FindByID finds a role by ID with its permissions preloaded
	FindByID(id string) (*models.Role, error)

	// ListByOrganization lists all roles of an organization with their
	// permissions preloaded
	ListByOrganization(organizationID string) ([]models.Role, error)
}

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID with the role relation preloaded
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email with the role relation preloaded
	FindByEmail(email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access.
type TaskRepository interface {
	// CreateWithOrder inserts the task inside a transaction, assigning the
	// next free order value for its organization
	CreateWithOrder(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id string, preload ...string) (*models.Task, error)

	// OrganizationIDByTaskID resolves only the owning organization of a task
	OrganizationIDByTaskID(id string) (string, error)

	// List retrieves tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Save persists all fields of an existing task
	Save(task *models.Task) error

	// Delete removes a task
	Delete(task *models.Task) error

	// ListColumn loads every task of one (organization, owner, status)
	// column ordered by (order asc, created_at asc)
	ListColumn(organizationID, ownerID string, status models.TaskStatus) ([]models.Task, error)

	// ListByOrganization loads all tasks of an organization ordered by
	// creation time
	ListByOrganization(organizationID string) ([]models.Task, error)

	// UpdateOrder writes only the order column of one task
	UpdateOrder(id string, order int) error

	// Transaction runs fn against a repository bound to a transaction;
	// returning an error rolls everything back
	Transaction(fn func(TaskRepository) error) error
}

// AuditRepository defines the interface for audit log data access.
type AuditRepository interface {
	// Create persists an audit log entry
	Create(log *models.AuditLog) error

	// List retrieves audit logs with filtering and pagination
	List(filter AuditFilter) ([]models.AuditLog, int64, error)
}
