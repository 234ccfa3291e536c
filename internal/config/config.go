package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Adapter drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Adapter  AdapterConfig
	Fallback FallbackConfig
	Telegram TelegramConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
	File   string // optional rotated log file, in addition to stdout
}

// AuthConfig holds the admin panel shared secret.
type AuthConfig struct {
	AdminKey string
}

// AdapterConfig selects the remote document store driver.
type AdapterConfig struct {
	Driver  string
	DataDir string // file driver only
}

// FallbackConfig locates an optional fallback dataset replacing the built-in one.
type FallbackConfig struct {
	Path      string // local file (.json, .json.gz, .yaml, .yml)
	S3Enabled bool
	S3Bucket  string
	S3Region  string
	S3Prefix  string
}

// TelegramConfig holds reservation notification settings.
type TelegramConfig struct {
	Enabled bool
	Token   string
	ChatID  int64
}

// Load loads and validates configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	cfg := Read()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Read loads configuration from the environment without validating it. Tools
// that only need the document store check it with ValidateAdapter.
func Read() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "cafesite"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 10),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 2),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Auth: AuthConfig{
			AdminKey: getEnv("ADMIN_KEY", ""),
		},
		Adapter: AdapterConfig{
			Driver:  getEnv("ADAPTER", DriverPostgres),
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Fallback: FallbackConfig{
			Path:      getEnv("FALLBACK_PATH", ""),
			S3Enabled: getEnvAsBool("FALLBACK_S3_ENABLED", false),
			S3Bucket:  getEnv("FALLBACK_S3_BUCKET", ""),
			S3Region:  getEnv("FALLBACK_S3_REGION", "us-east-1"),
			S3Prefix:  getEnv("FALLBACK_S3_PREFIX", "fallback/"),
		},
		Telegram: TelegramConfig{
			Enabled: getEnvAsBool("TELEGRAM_ENABLED", false),
			Token:   getEnv("TELEGRAM_TOKEN", ""),
			ChatID:  getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.ValidateAdapter(); err != nil {
		return err
	}

	if c.Auth.AdminKey == "" {
		return fmt.Errorf("admin key is required")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Fallback.S3Enabled {
		if c.Fallback.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required when S3 is enabled")
		}
		if c.Fallback.S3Region == "" {
			return fmt.Errorf("S3 region is required when S3 is enabled")
		}
		if c.Fallback.Path == "" {
			return fmt.Errorf("fallback path is required when S3 is enabled")
		}
	}

	if c.Telegram.Enabled {
		if c.Telegram.Token == "" {
			return fmt.Errorf("telegram token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == 0 {
			return fmt.Errorf("telegram chat id is required when telegram is enabled")
		}
	}

	return nil
}

// ValidateAdapter checks the document store selection and, for postgres, the
// database section.
func (c *Config) ValidateAdapter() error {
	switch c.Adapter.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Adapter.DataDir == "" {
			return fmt.Errorf("data directory is required for the file adapter")
		}
	case DriverPostgres:
		if err := c.Database.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid adapter: %s (must be memory, file, or postgres)", c.Adapter.Driver)
	}

	return nil
}

// Validate checks the database section. It is only consulted for the postgres adapter.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 2 {
		return fmt.Errorf("database max connections must be at least 2")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsInt64 is getEnvAsInt for ids that overflow int32 (telegram chat ids).
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
