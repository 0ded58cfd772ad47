package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusInReview   TaskStatus = "in-review"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusOnHold     TaskStatus = "on-hold"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusInReview, TaskStatusCompleted, TaskStatusOnHold:
		return true
	}
	return false
}

type TaskCategory string

const (
	TaskCategoryWork     TaskCategory = "Work"
	TaskCategoryPersonal TaskCategory = "Personal"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task belongs to a column keyed by (OrganizationID, OwnerID, Status). The
// composite unique index keeps Order unique within a column at all times,
// which is why reordering writes in two phases.
type Task struct {
	ID             string        `gorm:"type:uuid;primarykey" json:"id"`
	Title          string        `gorm:"type:varchar(255);not null" json:"title"`
	Description    *string       `gorm:"type:text" json:"description"`
	Status         TaskStatus    `gorm:"type:varchar(20);not null;default:'pending';uniqueIndex:idx_tasks_column_order,priority:3" json:"status"`
	Category       *TaskCategory `gorm:"type:varchar(50)" json:"category"`
	Priority       TaskPriority  `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Order          int           `gorm:"not null;default:0;uniqueIndex:idx_tasks_column_order,priority:4" json:"order"`
	OwnerID        string        `gorm:"type:uuid;not null;uniqueIndex:idx_tasks_column_order,priority:2" json:"ownerId"`
	OrganizationID string        `gorm:"type:uuid;not null;uniqueIndex:idx_tasks_column_order,priority:1" json:"organizationId"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`

	// Relations
	Owner        *User        `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Organization Organization `gorm:"foreignKey:OrganizationID" json:"-"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
