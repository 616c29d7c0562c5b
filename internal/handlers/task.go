package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
	"github.com/taskdeck/taskdeck-api/internal/logging"
	"github.com/taskdeck/taskdeck-api/internal/middleware"
	"github.com/taskdeck/taskdeck-api/internal/services"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the principal's tasks, newest first.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(userID)
	if err != nil {
		logging.Logger.WithError(err).Error("failed to list tasks")
		apierrors.StoreError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// GetTask returns one task. A task owned by someone else responds 404 exactly
// like a missing one.
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task owned by the principal. Any created_by_id in the
// payload is ignored.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, "Invalid task data", err)
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
		CreatedByID: userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to one of the principal's tasks.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, "Invalid task data", err)
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		DueDate:     req.DueDate,
	}, userID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes one of the principal's tasks. Absent and foreign-owned
// rows share the same 404.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	taskID, ok := parseTaskID(c)
	if !ok {
		return
	}

	deleted, err := h.taskService.DeleteTask(taskID, userID)
	if err != nil {
		logging.Logger.WithError(err).Error("failed to delete task")
		apierrors.StoreError(c)
		return
	}
	if !deleted {
		apierrors.NotFound(c, "Task not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// GetStats returns the principal's task counts grouped by status.
func (h *TaskHandler) GetStats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	stats, err := h.taskService.GetStats(userID)
	if err != nil {
		logging.Logger.WithError(err).Error("failed to compute stats")
		apierrors.StoreError(c)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func parseTaskID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.ValidationFailed(c, "Invalid task id", []apierrors.FieldError{
			{Field: "id", Rule: "numeric"},
		})
		return 0, false
	}
	return id, true
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty):
		apierrors.ValidationFailed(c, err.Error(), []apierrors.FieldError{
			{Field: "title", Rule: "required"},
		})
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.ValidationFailed(c, err.Error(), []apierrors.FieldError{
			{Field: "status", Rule: "oneof", Param: "planned in_progress completed"},
		})
	case errors.Is(err, services.ErrInvalidPriority):
		apierrors.ValidationFailed(c, err.Error(), []apierrors.FieldError{
			{Field: "priority", Rule: "oneof", Param: "low medium high urgent"},
		})
	default:
		logging.Logger.WithError(err).Error("task operation failed")
		apierrors.StoreError(c)
	}
}
