package main

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/constants"
	"github.com/taskdeck/taskdeck-api/internal/database"
	"github.com/taskdeck/taskdeck-api/internal/handlers"
	"github.com/taskdeck/taskdeck-api/internal/logging"
	"github.com/taskdeck/taskdeck-api/internal/middleware"
	"github.com/taskdeck/taskdeck-api/internal/repository"
	"github.com/taskdeck/taskdeck-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logging.Init(cfg.LogLevel, cfg.LogFile)

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Select the store backend. The in-memory backend keeps everything in
	// process-local maps and is for demos and experiments only.
	var stores repository.Stores
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logging.Logger.Warn("Using in-memory store: data is not persisted")
		stores = repository.NewMemoryStores()
	default:
		if err := database.Connect(cfg); err != nil {
			logging.Logger.Fatalf("Failed to connect to database: %v", err)
		}
		if err := database.Migrate(); err != nil {
			logging.Logger.Fatalf("Failed to run migrations: %v", err)
		}
		if cfg.DBDriver == "postgres" {
			if err := database.AddIndexes(database.GetDB()); err != nil {
				logging.Logger.Fatalf("Failed to create indexes: %v", err)
			}
		}
		stores = repository.NewGormStores(database.GetDB())
	}

	// Initialize Gin router
	r := gin.Default()

	// Session middleware: cookie-backed by default, Redis when configured
	var store sessions.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		var err error
		store, err = redisStore.NewStore(10, "tcp", redisAddr, "", []byte(cfg.SessionSecret))
		if err != nil {
			logging.Logger.Fatalf("Failed to create Redis session store: %v", err)
		}
	default:
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize services
	authService := services.NewAuthService(stores.Users)
	taskService := services.NewTaskService(stores.Tasks)
	projectService := services.NewProjectService(stores.Projects)
	adminService := services.NewAdminService(stores.Users)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.AuthMode)
	taskHandler := handlers.NewTaskHandler(taskService)
	projectHandler := handlers.NewProjectHandler(projectService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Principal resolution: session-backed, or the fixed guest identity when
	// demo mode is configured explicitly
	resolvePrincipal := middleware.RequireAuth()
	if cfg.AuthMode == config.AuthModeDemo {
		logging.Logger.Warn("Demo auth mode: every request runs as the shared guest account")
		resolvePrincipal = middleware.DemoIdentity()
	}

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		api.GET("/login", authHandler.Login)
		api.POST("/login", authHandler.Login)
		api.GET("/logout", authHandler.Logout)
		api.POST("/logout", authHandler.Logout)
		api.GET("/auth/user", resolvePrincipal, authHandler.GetCurrentUser)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(resolvePrincipal)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(resolvePrincipal)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
		}

		api.GET("/stats", resolvePrincipal, taskHandler.GetStats)

		// Admin routes (protected; role checked in the service layer)
		admin := api.Group("/admin")
		admin.Use(resolvePrincipal)
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/role", adminHandler.UpdateUserRole)
		}
	}

	// Start server
	logging.Logger.Infof("Server starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
