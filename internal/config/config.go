package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP server
	Server ServerConfig

	// Database Configuration
	Database DatabaseConfig

	// Redis Configuration
	Redis RedisConfig

	// Auth Configuration
	Auth AuthConfig

	// Logging Configuration
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	ListenAddress string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret string // Empty means a secret is generated on first start
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	listenAddr := os.Getenv("LISTEN_ADDRESS")
	if listenAddr == "" {
		listenAddr = ":8080"
	}

	// Database URL - default to a local SQLite file, allow override for dev
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "cedula.sqlite"
	}

	// Redis address - default to localhost:6379, allow override for dev/docker
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Server: ServerConfig{
			ListenAddress: listenAddr,
		},
		Database: DatabaseConfig{
			URL: dbURL,
		},
		Redis: RedisConfig{
			Address: redisAddr,
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
