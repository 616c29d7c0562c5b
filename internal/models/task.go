package models

import "time"

type TaskStatus string

const (
	TaskStatusPlanned    TaskStatus = "planned"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPlanned, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

// Task rows are visible to and mutable by their creator only. CreatedByID is
// set by the server at creation time and never changes afterwards.
type Task struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'planned'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	ProjectID   *uint64      `json:"project_id"`
	AssigneeID  *string      `gorm:"type:varchar(64)" json:"assignee_id"`
	CreatedByID string       `gorm:"type:varchar(64);not null" json:"created_by_id"`
	DueDate     *time.Time   `json:"due_date"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Relations
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignee  *User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	CreatedBy *User    `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
}

// TaskStats aggregates a single user's tasks by status. TotalTasks counts every
// row, so a row carrying an out-of-vocabulary status (edited outside the API)
// appears in the total but in no bucket.
type TaskStats struct {
	TotalTasks int64 `json:"totalTasks"`
	Completed  int64 `json:"completed"`
	InProgress int64 `json:"inProgress"`
	Planned    int64 `json:"planned"`
}
