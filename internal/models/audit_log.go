package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records a mutating action. Writing one is fire-and-forget from
// the caller's point of view.
type AuditLog struct {
	ID         string    `gorm:"type:uuid;primarykey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"userId"`
	Action     string    `gorm:"type:varchar(50);not null" json:"action"`
	Resource   string    `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID *string   `gorm:"type:uuid" json:"resourceId"`
	Details    *string   `gorm:"type:text" json:"details"`
	Timestamp  time.Time `gorm:"not null;index" json:"timestamp"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	return nil
}
