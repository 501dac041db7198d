// Package config loads server configuration from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the complete server configuration.
type Config struct {
	App           AppConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Notifications NotificationConfig
	Notes         NotesConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Env             string
	Port            string
	LogLevel        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Development reports whether the server runs in development mode.
func (c AppConfig) Development() bool {
	return c.Env == "development"
}

// DatabaseConfig holds PostgreSQL settings.
type DatabaseConfig struct {
	URL         string
	MaxConns    int
	AutoMigrate bool
}

// AuthConfig holds administrator credentials and token settings.
type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	// AdminPasswordHash is a bcrypt hash
	AdminPasswordHash string
	// AdminPassword is hashed at start-up when no hash is configured (development only)
	AdminPassword string
	CookieSecure  bool
	SessionTTL    time.Duration
	RememberTTL   time.Duration
}

// NotificationConfig selects the notification sinks.
type NotificationConfig struct {
	// FileLogPath is the file sink target
	FileLogPath string

	// SinkTimeout bounds each sink delivery
	SinkTimeout time.Duration

	// AuditLog stores every message in the audit_log table
	AuditLog bool

	// AMQPURL enables the RabbitMQ sink when set
	AMQPURL   string
	AMQPQueue string

	// RedisAddr enables the Redis sink when set
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
}

// NotesConfig holds the notes directory.
type NotesConfig struct {
	Dir string
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Env:             getEnv("APP_ENV", "development"),
			Port:            getEnv("APP_PORT", "8080"),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			ReadTimeout:     getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:         os.Getenv("DATABASE_URL"),
			MaxConns:    getEnvInt("DATABASE_MAX_CONNS", 10),
			AutoMigrate: getEnvBool("DATABASE_AUTO_MIGRATE", true),
		},
		Auth: AuthConfig{
			JWTSecret:         os.Getenv("JWT_SECRET"),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
			AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
			CookieSecure:      getEnvBool("COOKIE_SECURE", false),
			SessionTTL:        getEnvDuration("SESSION_TTL", 12*time.Hour),
			RememberTTL:       getEnvDuration("REMEMBER_TTL", 7*24*time.Hour),
		},
		Notifications: NotificationConfig{
			FileLogPath:   getEnv("NOTIFY_FILE_PATH", "data/files/system.log"),
			SinkTimeout:   getEnvDuration("NOTIFY_SINK_TIMEOUT", 3*time.Second),
			AuditLog:      getEnvBool("NOTIFY_AUDIT_LOG", true),
			AMQPURL:       os.Getenv("RABBITMQ_URL"),
			AMQPQueue:     getEnv("RABBITMQ_QUEUE", "tourbook.notifications"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			RedisChannel:  getEnv("REDIS_CHANNEL", "tourbook:notifications"),
		},
		Notes: NotesConfig{
			Dir: getEnv("NOTES_DIR", "data/files"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Auth.AdminUsername == "" {
		return errors.New("ADMIN_USERNAME must not be empty")
	}
	if c.Auth.AdminPasswordHash == "" && c.Auth.AdminPassword == "" {
		return errors.New("ADMIN_PASSWORD_HASH (or ADMIN_PASSWORD in development) is required")
	}
	if c.Auth.AdminPasswordHash == "" && !c.App.Development() {
		return errors.New("ADMIN_PASSWORD is accepted in development only, set ADMIN_PASSWORD_HASH")
	}
	if c.Auth.JWTSecret == "" {
		if !c.App.Development() {
			return errors.New("JWT_SECRET is required")
		}
		c.Auth.JWTSecret = "development-only-secret-change-me"
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
