package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User holds exactly one role; role and organization together form the
// role context every authorization decision is made against.
type User struct {
	ID             string    `gorm:"type:uuid;primarykey" json:"id"`
	Email          string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName      string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName       string    `gorm:"type:varchar(100);not null" json:"lastName"`
	RoleID         string    `gorm:"type:uuid;not null" json:"roleId"`
	OrganizationID string    `gorm:"type:uuid;not null;index" json:"organizationId"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Role         *Role        `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
	Tasks        []Task       `gorm:"foreignKey:OwnerID" json:"-"`
	AuditLogs    []AuditLog   `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// RoleName returns the name from the loaded role relation, or "" when the
// relation is absent.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
