package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrUserNotFound       = errors.New("user not found")
)

// AuthService handles login, logout and principal lookup.
type AuthService struct {
	userRepo repository.UserRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{
		userRepo: userRepo,
	}
}

// LoginInput holds the credentials and optional profile claims for a login.
type LoginInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Login authenticates by email. The first login for an address creates the
// account (upsert on first authentication); later logins verify the password
// and refresh the mutable profile fields.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.register(email, input)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	if input.FirstName != "" {
		user.FirstName = &input.FirstName
	}
	if input.LastName != "" {
		user.LastName = &input.LastName
	}

	user, err = s.userRepo.Upsert(user)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh user: %w", err)
	}

	return user, nil
}

func (s *AuthService) register(email string, input LoginInput) (*models.User, error) {
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        &email,
		Role:         models.RoleUser,
		PasswordHash: string(hashedPassword),
	}
	if input.FirstName != "" {
		user.FirstName = &input.FirstName
	}
	if input.LastName != "" {
		user.LastName = &input.LastName
	}

	user, err = s.userRepo.Upsert(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// DemoLogin upserts the fixed guest account and returns it. The guest always
// carries the admin role so the demo deployment can exercise every endpoint.
func (s *AuthService) DemoLogin() (*models.User, error) {
	email := constants.DemoUserEmail
	firstName := constants.DemoUserFirstName
	lastName := constants.DemoUserLastName

	user, err := s.userRepo.Upsert(&models.User{
		ID:        constants.DemoUserID,
		Email:     &email,
		FirstName: &firstName,
		LastName:  &lastName,
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert demo user: %w", err)
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// DisplayName builds the claim name stored in the session.
func DisplayName(user *models.User) string {
	var parts []string
	if user.FirstName != nil {
		parts = append(parts, *user.FirstName)
	}
	if user.LastName != nil {
		parts = append(parts, *user.LastName)
	}
	return strings.Join(parts, " ")
}
