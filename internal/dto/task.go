package dto

import (
	"time"

	"github.com/taskdeck/taskdeck-api/internal/models"
)

// TaskDTO represents a task in API responses. Project, Assignee and CreatedBy
// carry the joined rows and are null when the reference is absent.
type TaskDTO struct {
	ID          uint64              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status"`
	Priority    models.TaskPriority `json:"priority"`
	ProjectID   *uint64             `json:"project_id"`
	AssigneeID  *string             `json:"assignee_id"`
	CreatedByID string              `json:"created_by_id"`
	DueDate     *time.Time          `json:"due_date"`
	CompletedAt *time.Time          `json:"completed_at"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Project     *ProjectDTO         `json:"project"`
	Assignee    *UserDTO            `json:"assignee"`
	CreatedBy   *UserDTO            `json:"created_by"`
}

// CreateTaskRequest creates a task. There is deliberately no created_by_id
// field: the creator is always the session principal, and any such value in
// the payload is ignored.
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=planned in_progress completed"`
	Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ProjectID   *uint64             `json:"project_id"`
	AssigneeID  *string             `json:"assignee_id"`
	DueDate     *time.Time          `json:"due_date"`
}

// UpdateTaskRequest is a partial update; absent fields stay unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=planned in_progress completed"`
	Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	ProjectID   *uint64              `json:"project_id"`
	AssigneeID  *string              `json:"assignee_id"`
	DueDate     *time.Time           `json:"due_date"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		ProjectID:   task.ProjectID,
		AssigneeID:  task.AssigneeID,
		CreatedByID: task.CreatedByID,
		DueDate:     task.DueDate,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if task.Project != nil {
		project := ToProjectDTO(*task.Project)
		dto.Project = &project
	}
	if task.Assignee != nil {
		assignee := ToUserDTO(*task.Assignee)
		dto.Assignee = &assignee
	}
	if task.CreatedBy != nil {
		createdBy := ToUserDTO(*task.CreatedBy)
		dto.CreatedBy = &createdBy
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
