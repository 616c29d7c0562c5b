package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
	"github.com/taskdeck/taskdeck-api/internal/logging"
	"github.com/taskdeck/taskdeck-api/internal/middleware"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	authMode    string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, authMode string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		authMode:    authMode,
	}
}

// Login authenticates the caller and stores the principal claims in the
// session. In demo mode it ignores any payload and signs in the fixed guest.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.authMode == config.AuthModeDemo {
		user, err := h.authService.DemoLogin()
		if err != nil {
			logging.Logger.WithError(err).Error("demo login failed")
			apierrors.StoreError(c)
			return
		}
		h.saveClaims(c, user)
		return
	}

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, "Invalid login payload", err)
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			apierrors.InvalidCredentials(c)
		case errors.Is(err, services.ErrPasswordTooShort):
			apierrors.ValidationFailed(c, "Password too short", []apierrors.FieldError{
				{Field: "password", Rule: "min", Param: "8"},
			})
		default:
			logging.Logger.WithError(err).Error("login failed")
			apierrors.StoreError(c)
		}
		return
	}

	h.saveClaims(c, user)
}

func (h *AuthHandler) saveClaims(c *gin.Context, user *models.User) {
	session := sessions.Default(c)
	session.Set(constants.SessionKeyUserID, user.ID)
	if user.Email != nil {
		session.Set(constants.SessionKeyUserEmail, *user.Email)
	}
	session.Set(constants.SessionKeyUserName, services.DisplayName(user))
	if err := session.Save(); err != nil {
		logging.Logger.WithError(err).Error("failed to save session")
		apierrors.StoreError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Logout destroys the session. In demo mode there is nothing to destroy and
// the call is a plain acknowledgment.
func (h *AuthHandler) Logout(c *gin.Context) {
	if h.authMode != config.AuthModeDemo {
		session := sessions.Default(c)
		session.Clear()
		if err := session.Save(); err != nil {
			logging.Logger.WithError(err).Error("failed to clear session")
			apierrors.StoreError(c)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the user row behind the session principal.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found")
			return
		}
		logging.Logger.WithError(err).Error("failed to fetch current user")
		apierrors.StoreError(c)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}
