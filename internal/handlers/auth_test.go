package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"github.com/taskdeck/taskdeck-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	require.NoError(t, err)

	stores := repository.NewGormStores(db)
	authService := services.NewAuthService(stores.Users)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		authService: authService,
	}
}

func newAuthRouter(handler *AuthHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/login", handler.Login)
	r.GET("/api/login", handler.Login)
	r.POST("/api/logout", handler.Logout)
	return r
}

func TestAuthHandler_Login_FirstLoginCreatesUser(t *testing.T) {
	env := setupAuthTestEnv(t)
	handler := NewAuthHandler(env.authService, config.AuthModeSession)
	r := newAuthRouter(handler)

	payload := map[string]string{
		"email":      "new@example.com",
		"password":   "supersecret",
		"first_name": "New",
		"last_name":  "User",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.ID)
	require.NotNil(t, response.Email)
	require.Equal(t, payload["email"], *response.Email)
	require.Equal(t, models.RoleUser, response.Role)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Login(services.LoginInput{
		Email:    "existing@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	handler := NewAuthHandler(env.authService, config.AuthModeSession)
	r := newAuthRouter(handler)

	payload := map[string]string{
		"email":    "existing@example.com",
		"password": "not-the-password",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Login_SecondLoginKeepsIdentity(t *testing.T) {
	env := setupAuthTestEnv(t)

	first, err := env.authService.Login(services.LoginInput{
		Email:    "stable@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	second, err := env.authService.Login(services.LoginInput{
		Email:     "stable@example.com",
		Password:  "supersecret",
		FirstName: "Updated",
	})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.FirstName)
	require.Equal(t, "Updated", *second.FirstName)
}

func TestAuthHandler_DemoLogin(t *testing.T) {
	env := setupAuthTestEnv(t)
	handler := NewAuthHandler(env.authService, config.AuthModeDemo)
	r := newAuthRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/login", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, constants.DemoUserID, response.ID)
	require.Equal(t, models.RoleAdmin, response.Role)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupAuthTestEnv(t)

	user, err := env.authService.Login(services.LoginInput{
		Email:    "current@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	handler := NewAuthHandler(env.authService, config.AuthModeSession)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	handler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.ID)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupAuthTestEnv(t)
	handler := NewAuthHandler(env.authService, config.AuthModeSession)
	r := newAuthRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
