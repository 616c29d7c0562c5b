package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTitleRequired   = errors.New("title is required")
	ErrTitleEmpty      = errors.New("title cannot be empty")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidPriority = errors.New("invalid priority")
)

// TaskService is the ownership-scoped gateway to task storage. Every
// operation takes the acting principal's id and never exposes rows created by
// anyone else; a foreign row looks exactly like a missing one.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task. CreatedByID is filled
// by the handler from the session principal; client payloads cannot set it.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	ProjectID   *uint64
	AssigneeID  *string
	DueDate     *time.Time
	CreatedByID string
}

// UpdateTaskInput represents a partial update; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
	Priority    *models.TaskPriority
	ProjectID   *uint64
	AssigneeID  *string
	DueDate     *time.Time
}

// ListTasks returns the principal's tasks with relations, newest first
func (s *TaskService) ListTasks(principalID string) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns one of the principal's tasks with related data
func (s *TaskService) GetTask(taskID uint64, principalID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, principalID, "Project", "Assignee", "CreatedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task owned by the principal
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	if input.Status == "" {
		input.Status = models.TaskStatusPlanned
	} else if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.Priority == "" {
		input.Priority = models.TaskPriorityMedium
	} else if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	task := &models.Task{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		ProjectID:   input.ProjectID,
		AssigneeID:  input.AssigneeID,
		DueDate:     input.DueDate,
		CreatedByID: input.CreatedByID,
	}
	if task.Status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByIDAndOwner(task.ID, input.CreatedByID, "Project", "Assignee", "CreatedBy")
}

// UpdateTask applies a partial update to one of the principal's tasks.
// Moving into completed stamps completed_at; moving out clears it.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput, principalID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if *input.Status == models.TaskStatusCompleted {
			if task.CompletedAt == nil {
				now := time.Now()
				task.CompletedAt = &now
			}
		} else {
			task.CompletedAt = nil
		}
		task.Status = *input.Status
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ProjectID != nil {
		task.ProjectID = input.ProjectID
	}
	if input.AssigneeID != nil {
		task.AssigneeID = input.AssigneeID
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByIDAndOwner(task.ID, principalID, "Project", "Assignee", "CreatedBy")
}

// DeleteTask removes one of the principal's tasks. The bool mirrors the store:
// false for absent rows and for rows owned by someone else alike.
func (s *TaskService) DeleteTask(taskID uint64, principalID string) (bool, error) {
	deleted, err := s.taskRepo.DeleteByIDAndOwner(taskID, principalID)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	return deleted, nil
}

// GetStats aggregates the principal's tasks by status
func (s *TaskService) GetStats(principalID string) (models.TaskStats, error) {
	stats, err := s.taskRepo.StatsByOwner(principalID)
	if err != nil {
		return models.TaskStats{}, fmt.Errorf("failed to compute stats: %w", err)
	}
	return stats, nil
}
