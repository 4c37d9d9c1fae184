package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"sheetlens/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Storage  StorageConfig  `validate:"required"`
	Analysis AnalysisConfig `validate:"required"`
	Ops      OpsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL             string `validate:"required"`
	MaxOpenConns    int    `validate:"gte=0"`
	MaxIdleConns    int    `validate:"gte=0"`
	ConnMaxLifetime time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string `validate:"required,numeric"`
	GinMode        string `validate:"oneof=debug release test"`
	MaxUploadBytes int64  `validate:"gt=0"`
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// StorageConfig holds where uploaded files are kept
type StorageConfig struct {
	UploadDir string `validate:"required"`
}

// AnalysisConfig holds insight and listing defaults
type AnalysisConfig struct {
	InsightConfidence int `validate:"gte=0,lte=100"`
	DefaultPageLimit  int `validate:"gte=1,lte=100"`
	InsightPageLimit  int `validate:"gte=1,lte=100"`
}

// OpsConfig holds the operational listener (health, metrics, pprof)
type OpsConfig struct {
	Port    string `validate:"required_if=Enabled true"`
	Enabled bool
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = *loadServerConfig()
	config.Storage = *loadStorageConfig()
	config.Analysis = *loadAnalysisConfig()
	config.Ops = *loadOpsConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:             url,
		MaxOpenConns:    getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDurationOrDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute),
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "debug"),
		MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 10*1024*1024)),
		ReadTimeout:    getEnvDurationOrDefault("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getEnvDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		UploadDir: getEnvOrDefault("UPLOAD_DIR", "./uploads"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		InsightConfidence: getEnvIntOrDefault("INSIGHT_CONFIDENCE", 85),
		DefaultPageLimit:  getEnvIntOrDefault("DEFAULT_PAGE_LIMIT", 10),
		InsightPageLimit:  getEnvIntOrDefault("INSIGHT_PAGE_LIMIT", 20),
	}
}

func loadOpsConfig() *OpsConfig {
	return &OpsConfig{
		Port:    getEnvOrDefault("OPS_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("OPS_ENABLED", true),
	}
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fe.Namespace()+" failed "+fe.Tag())
			}
			return errors.ConfigInvalid(strings.Join(msgs, "; "))
		}
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
