package repository

import (
	"github.com/taskdeck/taskdeck-api/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Upsert inserts the user or, if the id already exists, refreshes its
	// mutable fields and bumps updated_at. Returns the stored row.
	Upsert(user *models.User) (*models.User, error)

	// FindByID finds a user by ID
	FindByID(id string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// ListAll returns every user, newest-created first
	ListAll() ([]models.User, error)

	// UpdateRoleByID sets the role of the given user and returns the updated
	// row, or gorm.ErrRecordNotFound if the user does not exist.
	UpdateRoleByID(id string, role models.UserRole) (*models.User, error)
}

// ProjectRepository defines the interface for project data access. Reads are
// always parameterized by the owning user.
type ProjectRepository interface {
	Create(project *models.Project) error

	// ListByOwner returns the owner's projects, newest-created first
	ListByOwner(ownerID string) ([]models.Project, error)
}

// TaskRepository defines the interface for task data access. Every operation
// that touches an existing row carries the owner id in its WHERE clause, so a
// row created by someone else is indistinguishable from an absent one.
type TaskRepository interface {
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID scoped to its creator, preloading
	// the given relations. Returns gorm.ErrRecordNotFound for rows owned by
	// another user.
	FindByIDAndOwner(id uint64, ownerID string, preload ...string) (*models.Task, error)

	// ListByOwner returns the creator's tasks with project, assignee and
	// creator relations attached, newest-created first
	ListByOwner(ownerID string) ([]models.Task, error)

	// Update persists a previously loaded task, bumping updated_at
	Update(task *models.Task) error

	// DeleteByIDAndOwner removes the task if it belongs to ownerID. The bool
	// reports whether a row was deleted; false covers both absent and
	// foreign-owned rows.
	DeleteByIDAndOwner(id uint64, ownerID string) (bool, error)

	// StatsByOwner aggregates the owner's tasks by status
	StatsByOwner(ownerID string) (models.TaskStats, error)
}

// Stores bundles the three repositories behind one injection point. The
// backing implementation (GORM or in-memory) is chosen once at process start.
type Stores struct {
	Users    UserRepository
	Projects ProjectRepository
	Tasks    TaskRepository
}

// NewGormStores returns repositories backed by the given database handle.
func NewGormStores(db *gorm.DB) Stores {
	return Stores{
		Users:    NewUserRepository(db),
		Projects: NewProjectRepository(db),
		Tasks:    NewTaskRepository(db),
	}
}
