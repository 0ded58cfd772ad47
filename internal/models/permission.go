package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Permission is a (resource, action) pair. Its canonical string form is
// "resource:action".
type Permission struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Resource  string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_permissions_resource_action,priority:1" json:"resource"`
	Action    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_permissions_resource_action,priority:2" json:"action"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Roles []Role `gorm:"many2many:role_permissions" json:"-"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Key returns the canonical "resource:action" form.
func (p Permission) Key() string {
	return fmt.Sprintf("%s:%s", p.Resource, p.Action)
}
