package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Auth modes. Demo mode resolves every request to one fixed guest principal and
// has no security boundary; it must only be enabled deliberately, never as a
// fallback on auth failure.
const (
	AuthModeSession = "session"
	AuthModeDemo    = "demo"
)

// Store backends
const (
	StoreBackendDatabase = "database"
	StoreBackendMemory   = "memory"
)

// Session backends
const (
	SessionBackendCookie = "cookie"
	SessionBackendRedis  = "redis"
)

type Config struct {
	HTTPAddr       string
	GinMode        string
	AuthMode       string
	StoreBackend   string
	SessionBackend string
	SessionSecret  string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      string
	LogLevel       string
	LogFile        string
}

func Load() *Config {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		AuthMode:       getEnv("AUTH_MODE", AuthModeSession),
		StoreBackend:   getEnv("STORE_BACKEND", StoreBackendDatabase),
		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendCookie),
		SessionSecret:  getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "taskdeck"),
		DBPassword:     getEnv("DB_PASSWORD", "taskdeck"),
		DBName:         getEnv("DB_NAME", "taskdeck"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
