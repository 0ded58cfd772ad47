package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reserved role names. Roles with any other name are treated as custom
// roles outside the hierarchy.
const (
	RoleNameOwner  = "owner"
	RoleNameAdmin  = "admin"
	RoleNameViewer = "viewer"
)

// roleHierarchy orders the reserved names from strongest to weakest. A role
// inherits the permissions of every role at or below its own position.
var roleHierarchy = []string{RoleNameOwner, RoleNameAdmin, RoleNameViewer}

// RoleStrength is the closed classification of a role name. Custom names
// never participate in inheritance.
type RoleStrength int

const (
	StrengthCustom RoleStrength = iota
	StrengthViewer
	StrengthAdmin
	StrengthOwner
)

// Role is scoped to one organization: "Admin" in org A and "Admin" in org B
// are distinct rows with independent permission sets.
type Role struct {
	ID             string    `gorm:"type:uuid;primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(50);not null" json:"name"`
	OrganizationID string    `gorm:"type:uuid;not null;index" json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Permissions  []Permission `gorm:"many2many:role_permissions" json:"permissions,omitempty"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// NormalizeRoleName trims and lowercases a role name for comparison.
func NormalizeRoleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// StrengthOf maps a role name to its place in the hierarchy.
func StrengthOf(name string) RoleStrength {
	switch NormalizeRoleName(name) {
	case RoleNameOwner:
		return StrengthOwner
	case RoleNameAdmin:
		return StrengthAdmin
	case RoleNameViewer:
		return StrengthViewer
	default:
		return StrengthCustom
	}
}

// RoleBand returns the set of normalized role names a role inherits
// permissions from: the name itself plus every strictly weaker reserved
// name. Unrecognized names form a singleton band.
func RoleBand(name string) []string {
	normalized := NormalizeRoleName(name)
	for i, reserved := range roleHierarchy {
		if reserved == normalized {
			band := make([]string, len(roleHierarchy)-i)
			copy(band, roleHierarchy[i:])
			return band
		}
	}
	return []string{normalized}
}
