package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	apierrors "github.com/taskdeck/taskdeck-api/internal/errors"
)

// RequireAuth resolves the request principal from the server-side session.
// Without a valid session the request ends here with a 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.SessionKeyUserID)

		id, ok := userID.(string)
		if !ok || id == "" {
			apierrors.Unauthenticated(c, "")
			c.Abort()
			return
		}

		// Store the principal in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, id)
		c.Next()
	}
}

// DemoIdentity resolves every request to the fixed guest principal,
// regardless of origin. There is no security boundary in this mode: all
// callers share one account. Non-production, enabled only by explicit
// configuration (AUTH_MODE=demo).
func DemoIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, constants.DemoUserID)
		c.Next()
	}
}

// GetUserID retrieves the current principal id from context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
