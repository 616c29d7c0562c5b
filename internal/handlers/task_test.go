package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/dto"
	"github.com/taskdeck/taskdeck-api/internal/models"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"github.com/taskdeck/taskdeck-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	stores := repository.NewGormStores(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(stores.Tasks))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(id string) *models.User {
	email := id + "@example.com"
	user := &models.User{
		ID:    id,
		Email: &email,
		Role:  models.RoleUser,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title, creatorID string, status models.TaskStatus) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Status:      status,
		Priority:    models.TaskPriorityMedium,
		CreatedByID: creatorID,
	}
	suite.db.Create(task)
	return task
}

func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", id)}}
}

func (suite *TaskHandlerTestSuite) TestListTasks_OnlyOwnTasks() {
	userA := suite.createTestUser("user-a")
	userB := suite.createTestUser("user-b")
	suite.createTestTask("A's task", userA.ID, models.TaskStatusPlanned)
	suite.createTestTask("B's task", userB.ID, models.TaskStatusPlanned)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, userA.ID)
	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var tasks []dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &tasks))
	suite.Require().Len(tasks, 1)
	assert.Equal(suite.T(), "A's task", tasks[0].Title)
	assert.Equal(suite.T(), userA.ID, tasks[0].CreatedByID)
}

func (suite *TaskHandlerTestSuite) TestListTasks_Unauthorized() {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/tasks", nil)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_OwnershipHidesForeignRows() {
	userA := suite.createTestUser("user-a")
	userB := suite.createTestUser("user-b")
	task := suite.createTestTask("A's task", userA.ID, models.TaskStatusPlanned)

	// The owner sees the task
	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, userA.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// Anyone else gets the same 404 as for a missing row
	c, w = suite.createAuthContext("GET", "/api/tasks/1", nil, userB.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/999", nil, userB.ID)
	suite.setIDParam(c, 999)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_ForcesCreator() {
	user := suite.createTestUser("user-a")
	suite.createTestUser("user-b")

	// created_by_id in the payload is ignored
	requestBody := map[string]interface{}{
		"title":         "New Task",
		"created_by_id": "user-b",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "New Task", response.Title)
	assert.Equal(suite.T(), user.ID, response.CreatedByID)
	assert.Equal(suite.T(), models.TaskStatusPlanned, response.Status)
	assert.Equal(suite.T(), models.TaskPriorityMedium, response.Priority)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("user-a")

	requestBody := map[string]interface{}{
		"description": "no title",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "VALIDATION_ERROR")
	assert.Contains(suite.T(), w.Body.String(), "title")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidStatus() {
	user := suite.createTestUser("user-a")

	requestBody := map[string]interface{}{
		"title":  "Task",
		"status": "done",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)
	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Contains(suite.T(), w.Body.String(), "status")
}

func (suite *TaskHandlerTestSuite) TestCreateTask_RoundTrip() {
	user := suite.createTestUser("user-a")

	requestBody := map[string]interface{}{
		"title":       "Round trip",
		"description": "Full payload",
		"status":      "in_progress",
		"priority":    "urgent",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)
	suite.handler.CreateTask(c)
	suite.Require().Equal(http.StatusCreated, w.Code)

	var created dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &created))

	c, w = suite.createAuthContext("GET", "/api/tasks/1", nil, user.ID)
	suite.setIDParam(c, created.ID)
	suite.handler.GetTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var fetched dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(suite.T(), created.ID, fetched.ID)
	assert.Equal(suite.T(), "Round trip", fetched.Title)
	assert.Equal(suite.T(), "Full payload", fetched.Description)
	assert.Equal(suite.T(), models.TaskStatusInProgress, fetched.Status)
	assert.Equal(suite.T(), models.TaskPriorityUrgent, fetched.Priority)
	assert.Equal(suite.T(), user.ID, fetched.CreatedByID)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_PartialLeavesOtherFields() {
	user := suite.createTestUser("user-a")
	task := suite.createTestTask("Original title", user.ID, models.TaskStatusPlanned)

	body, _ := json.Marshal(map[string]interface{}{
		"description": "Updated description",
	})

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Original title", response.Title)
	assert.Equal(suite.T(), "Updated description", response.Description)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_CompleteIsIdempotent() {
	user := suite.createTestUser("user-a")
	task := suite.createTestTask("Finish me", user.ID, models.TaskStatusPlanned)

	body, _ := json.Marshal(map[string]interface{}{"status": "completed"})

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var first dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(suite.T(), models.TaskStatusCompleted, first.Status)
	suite.Require().NotNil(first.CompletedAt)

	// Second identical update succeeds and keeps the original completion time
	c, w = suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var second dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(suite.T(), models.TaskStatusCompleted, second.Status)
	suite.Require().NotNil(second.CompletedAt)
	assert.Equal(suite.T(), first.CompletedAt.Unix(), second.CompletedAt.Unix())
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ReopeningClearsCompletedAt() {
	user := suite.createTestUser("user-a")
	task := suite.createTestTask("Reopen me", user.ID, models.TaskStatusPlanned)

	body, _ := json.Marshal(map[string]interface{}{"status": "completed"})
	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	body, _ = json.Marshal(map[string]interface{}{"status": "planned"})
	c, w = suite.createAuthContext("PUT", "/api/tasks/1", body, user.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)
	suite.Require().Equal(http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusPlanned, response.Status)
	assert.Nil(suite.T(), response.CompletedAt)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_ForeignRowHidden() {
	userA := suite.createTestUser("user-a")
	userB := suite.createTestUser("user-b")
	task := suite.createTestTask("A's task", userA.ID, models.TaskStatusPlanned)

	body, _ := json.Marshal(map[string]interface{}{"title": "hijacked"})

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, userB.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask_OwnForeignAndMissing() {
	userA := suite.createTestUser("user-a")
	userB := suite.createTestUser("user-b")
	task := suite.createTestTask("A's task", userA.ID, models.TaskStatusPlanned)

	// Foreign row: same 404 as a missing one
	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, userB.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// Missing row
	c, w = suite.createAuthContext("DELETE", "/api/tasks/999", nil, userB.ID)
	suite.setIDParam(c, 999)
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	// Owner deletes
	c, w = suite.createAuthContext("DELETE", "/api/tasks/1", nil, userA.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.DeleteTask(c)
	// Handlers are invoked directly, so flush the deferred status header the
	// engine would normally write for a bodyless response.
	c.Writer.WriteHeaderNow()
	assert.Equal(suite.T(), http.StatusNoContent, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/1", nil, userA.ID)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetStats_BucketsSumToTotal() {
	user := suite.createTestUser("user-a")
	other := suite.createTestUser("user-b")
	suite.createTestTask("one", user.ID, models.TaskStatusPlanned)
	suite.createTestTask("two", user.ID, models.TaskStatusPlanned)
	suite.createTestTask("three", user.ID, models.TaskStatusCompleted)
	// Another user's task must not leak into the stats
	suite.createTestTask("foreign", other.ID, models.TaskStatusInProgress)

	c, w := suite.createAuthContext("GET", "/api/stats", nil, user.ID)
	suite.handler.GetStats(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stats models.TaskStats
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(suite.T(), int64(3), stats.TotalTasks)
	assert.Equal(suite.T(), int64(1), stats.Completed)
	assert.Equal(suite.T(), int64(0), stats.InProgress)
	assert.Equal(suite.T(), int64(2), stats.Planned)
	assert.Equal(suite.T(), stats.TotalTasks, stats.Completed+stats.InProgress+stats.Planned)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
