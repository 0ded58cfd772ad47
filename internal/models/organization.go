package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is a node in the tenant tree. ParentID is nil for root
// organizations; authority flows from an organization to its descendants.
type Organization struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	ParentID  *string   `gorm:"type:uuid;index" json:"parentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Parent   *Organization  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Organization `gorm:"foreignKey:ParentID" json:"-"`
	Roles    []Role         `gorm:"foreignKey:OrganizationID" json:"-"`
	Users    []User         `gorm:"foreignKey:OrganizationID" json:"-"`
	Tasks    []Task         `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
