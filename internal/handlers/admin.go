package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
	"github.com/taskdeck/taskdeck-api/internal/logging"
	"github.com/taskdeck/taskdeck-api/internal/middleware"
	"github.com/taskdeck/taskdeck-api/internal/services"
)

// AdminHandler coordinates admin-only HTTP handlers.
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers returns every user. Admin role only.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	users, err := h.adminService.ListUsers(userID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// UpdateUserRole changes a user's role. Admin role only.
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	targetID := c.Param("id")

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingFailed(c, "Invalid role", err)
		return
	}

	user, err := h.adminService.UpdateUserRole(targetID, req.Role, userID)
	if err != nil {
		respondAdminError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func respondAdminError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrAdminRequired):
		apierrors.Forbidden(c, "Admin access required")
	case errors.Is(err, services.ErrInvalidRole):
		apierrors.ValidationFailed(c, err.Error(), []apierrors.FieldError{
			{Field: "role", Rule: "oneof", Param: "user admin"},
		})
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	default:
		logging.Logger.WithError(err).Error("admin operation failed")
		apierrors.StoreError(c)
	}
}
