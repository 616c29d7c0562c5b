package repository

import (
	"github.com/taskdeck/taskdeck-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDAndOwner finds a task by ID scoped to its creator.
func (r *GormTaskRepository) FindByIDAndOwner(id uint64, ownerID string, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Where("created_by_id = ?", ownerID)

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByOwner returns the creator's tasks with relations, newest-created first
func (r *GormTaskRepository) ListByOwner(ownerID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Project").
		Preload("Assignee").
		Preload("CreatedBy").
		Where("created_by_id = ?", ownerID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists a previously loaded task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// DeleteByIDAndOwner removes the task if it belongs to ownerID.
func (r *GormTaskRepository) DeleteByIDAndOwner(id uint64, ownerID string) (bool, error) {
	result := r.db.Where("id = ? AND created_by_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// StatsByOwner aggregates the owner's tasks by status in one grouped query.
func (r *GormTaskRepository) StatsByOwner(ownerID string) (models.TaskStats, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	err := r.db.Model(&models.Task{}).
		Select("status, COUNT(*) AS count").
		Where("created_by_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return models.TaskStats{}, err
	}

	var stats models.TaskStats
	for _, row := range rows {
		stats.TotalTasks += row.Count
		switch row.Status {
		case models.TaskStatusCompleted:
			stats.Completed = row.Count
		case models.TaskStatusInProgress:
			stats.InProgress = row.Count
		case models.TaskStatusPlanned:
			stats.Planned = row.Count
		}
	}

	return stats, nil
}
