package constants

// Context keys shared between middleware and handlers.
const (
	ContextKeyUser           = "current_user"
	ContextKeyOrganizationID = "resolved_organization_id"
)

// Pagination defaults.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

const MinPasswordLength = 6

// Canonical permission strings. Single source of truth for guards and seed
// data so names never drift.
const (
	PermissionTaskCreate = "task:create"
	PermissionTaskRead   = "task:read"
	PermissionTaskUpdate = "task:update"
	PermissionTaskDelete = "task:delete"
	PermissionAuditRead  = "audit:read"
)

// PermissionSpec is a (resource, action) pair used to seed the permissions
// table.
type PermissionSpec struct {
	Resource string
	Action   string
}

// DefaultPermissionSpecs lists every permission the system grants.
var DefaultPermissionSpecs = []PermissionSpec{
	{Resource: "task", Action: "create"},
	{Resource: "task", Action: "read"},
	{Resource: "task", Action: "update"},
	{Resource: "task", Action: "delete"},
	{Resource: "audit", Action: "read"},
}
