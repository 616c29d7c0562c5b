package services

import (
	"errors"
	"fmt"

	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrAdminRequired = errors.New("admin role required")
	ErrInvalidRole   = errors.New("invalid role")
)

// AdminService enforces the one role-based rule: only admins may list users or
// change roles. The actor's role is re-fetched on every call, never cached.
type AdminService struct {
	userRepo repository.UserRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(userRepo repository.UserRepository) *AdminService {
	return &AdminService{
		userRepo: userRepo,
	}
}

// ListUsers returns every user if the actor is an admin
func (s *AdminService) ListUsers(actorID string) ([]models.User, error) {
	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserRole sets the target's role if the actor is an admin. The admin
// check and the update are two store calls with no transaction between them;
// a concurrent demotion of the actor can slip through that window. Nothing
// stops an admin from changing their own role.
func (s *AdminService) UpdateUserRole(targetUserID string, role models.UserRole, actorID string) (*models.User, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if err := s.requireAdmin(actorID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.UpdateRoleByID(targetUserID, role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	return user, nil
}

func (s *AdminService) requireAdmin(actorID string) error {
	actor, err := s.userRepo.FindByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAdminRequired
		}
		return fmt.Errorf("failed to find actor: %w", err)
	}

	if actor.Role != models.RoleAdmin {
		return ErrAdminRequired
	}

	return nil
}
