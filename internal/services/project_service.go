package services

import (
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
)

var ErrProjectNameRequired = errors.New("project name is required")

// ProjectService is the ownership-scoped gateway to project storage. Projects
// have no update or delete operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProjectInput represents input for creating a project. OwnerID is
// filled from the session principal, never from the client payload.
type CreateProjectInput struct {
	Name        string
	Description string
	OwnerID     string
}

// ListProjects returns the principal's projects, newest first
func (s *ProjectService) ListProjects(principalID string) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(principalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CreateProject creates a new project owned by the principal
func (s *ProjectService) CreateProject(input CreateProjectInput) (*models.Project, error) {
	if input.Name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}
