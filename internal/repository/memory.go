package repository

import (
	"sort"
	"time"

	"github.com/taskdeck/taskdeck-api/internal/models"
	"gorm.io/gorm"
)

// memoryState is the shared backing for the in-memory repositories. It holds
// no locks: it is only safe under single-threaded or externally-synchronized
// access, which makes it suitable for tests and single-user demo deployments
// and nothing else.
type memoryState struct {
	users         map[string]models.User
	projects      map[uint64]models.Project
	tasks         map[uint64]models.Task
	nextProjectID uint64
	nextTaskID    uint64
}

// NewMemoryStores returns repositories backed by process-local maps. See
// memoryState for the synchronization contract. Missing rows are reported as
// gorm.ErrRecordNotFound so the service layer treats both backends uniformly.
func NewMemoryStores() Stores {
	s := &memoryState{
		users:    make(map[string]models.User),
		projects: make(map[uint64]models.Project),
		tasks:    make(map[uint64]models.Task),
	}
	return Stores{
		Users:    &MemoryUserRepository{s: s},
		Projects: &MemoryProjectRepository{s: s},
		Tasks:    &MemoryTaskRepository{s: s},
	}
}

// MemoryUserRepository is a map-backed UserRepository.
type MemoryUserRepository struct {
	s *memoryState
}

func (r *MemoryUserRepository) Upsert(user *models.User) (*models.User, error) {
	now := time.Now()
	stored, exists := r.s.users[user.ID]
	if exists {
		stored.Email = user.Email
		stored.FirstName = user.FirstName
		stored.LastName = user.LastName
		stored.Role = user.Role
		stored.PasswordHash = user.PasswordHash
		stored.UpdatedAt = now
	} else {
		stored = *user
		stored.CreatedAt = now
		stored.UpdatedAt = now
	}
	r.s.users[user.ID] = stored
	return &stored, nil
}

func (r *MemoryUserRepository) FindByID(id string) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &user, nil
}

func (r *MemoryUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, user := range r.s.users {
		if user.Email != nil && *user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MemoryUserRepository) ListAll() ([]models.User, error) {
	users := make([]models.User, 0, len(r.s.users))
	for _, user := range r.s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID > users[j].ID
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (r *MemoryUserRepository) UpdateRoleByID(id string, role models.UserRole) (*models.User, error) {
	user, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	user.Role = role
	user.UpdatedAt = time.Now()
	r.s.users[id] = user
	return &user, nil
}

// MemoryProjectRepository is a map-backed ProjectRepository.
type MemoryProjectRepository struct {
	s *memoryState
}

func (r *MemoryProjectRepository) Create(project *models.Project) error {
	r.s.nextProjectID++
	now := time.Now()
	project.ID = r.s.nextProjectID
	project.CreatedAt = now
	project.UpdatedAt = now
	stored := *project
	stored.Owner = nil
	stored.Tasks = nil
	r.s.projects[project.ID] = stored
	return nil
}

func (r *MemoryProjectRepository) ListByOwner(ownerID string) ([]models.Project, error) {
	var projects []models.Project
	for _, project := range r.s.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID > projects[j].ID
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// MemoryTaskRepository is a map-backed TaskRepository.
type MemoryTaskRepository struct {
	s *memoryState
}

func (r *MemoryTaskRepository) Create(task *models.Task) error {
	r.s.nextTaskID++
	now := time.Now()
	task.ID = r.s.nextTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	r.s.tasks[task.ID] = r.detached(*task)
	return nil
}

func (r *MemoryTaskRepository) FindByIDAndOwner(id uint64, ownerID string, preload ...string) (*models.Task, error) {
	task, ok := r.s.tasks[id]
	if !ok || task.CreatedByID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	r.attachRelations(&task)
	return &task, nil
}

func (r *MemoryTaskRepository) ListByOwner(ownerID string) ([]models.Task, error) {
	tasks := []models.Task{}
	for _, task := range r.s.tasks {
		if task.CreatedByID == ownerID {
			r.attachRelations(&task)
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (r *MemoryTaskRepository) Update(task *models.Task) error {
	if _, ok := r.s.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	task.UpdatedAt = time.Now()
	r.s.tasks[task.ID] = r.detached(*task)
	return nil
}

func (r *MemoryTaskRepository) DeleteByIDAndOwner(id uint64, ownerID string) (bool, error) {
	task, ok := r.s.tasks[id]
	if !ok || task.CreatedByID != ownerID {
		return false, nil
	}
	delete(r.s.tasks, id)
	return true, nil
}

func (r *MemoryTaskRepository) StatsByOwner(ownerID string) (models.TaskStats, error) {
	var stats models.TaskStats
	for _, task := range r.s.tasks {
		if task.CreatedByID != ownerID {
			continue
		}
		stats.TotalTasks++
		switch task.Status {
		case models.TaskStatusCompleted:
			stats.Completed++
		case models.TaskStatusInProgress:
			stats.InProgress++
		case models.TaskStatusPlanned:
			stats.Planned++
		}
	}
	return stats, nil
}

// detached strips relation pointers so stored rows never alias caller memory.
func (r *MemoryTaskRepository) detached(task models.Task) models.Task {
	task.Project = nil
	task.Assignee = nil
	task.CreatedBy = nil
	return task
}

// attachRelations mirrors the GORM preloads: related rows when present, nil
// when the reference is absent or dangling.
func (r *MemoryTaskRepository) attachRelations(task *models.Task) {
	if task.ProjectID != nil {
		if project, ok := r.s.projects[*task.ProjectID]; ok {
			task.Project = &project
		}
	}
	if task.AssigneeID != nil {
		if assignee, ok := r.s.users[*task.AssigneeID]; ok {
			task.Assignee = &assignee
		}
	}
	if creator, ok := r.s.users[task.CreatedByID]; ok {
		task.CreatedBy = &creator
	}
}
