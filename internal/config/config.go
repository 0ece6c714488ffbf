package config

import (
	"os"
	"strconv"
	"time"

	"warehouse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Data     DataConfig
	Quality  QualityConfig
	Cache    CacheConfig
}

// DatabaseConfig holds metadata store connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DataConfig holds upload and sample generation settings
type DataConfig struct {
	MaxUploadBytes int64
	SampleRows     int
}

// QualityConfig holds the quality score weighting policy. The weights are
// deterministic and documented, not baked-in constants.
type QualityConfig struct {
	CompletenessWeight float64
	UniquenessWeight   float64
}

// CacheConfig holds result cache settings
type CacheConfig struct {
	TTL time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		},
		Data: DataConfig{
			MaxUploadBytes: int64(getEnvIntOrDefault("MAX_UPLOAD_MB", 10)) * 1024 * 1024,
			SampleRows:     getEnvIntOrDefault("SAMPLE_ROWS", 150),
		},
		Quality: QualityConfig{
			CompletenessWeight: getEnvFloatOrDefault("QUALITY_COMPLETENESS_WEIGHT", 0.6),
			UniquenessWeight:   getEnvFloatOrDefault("QUALITY_UNIQUENESS_WEIGHT", 0.4),
		},
		Cache: CacheConfig{
			TTL: time.Duration(getEnvIntOrDefault("CACHE_TTL_SECONDS", 30)) * time.Second,
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Data.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if config.Data.SampleRows <= 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must be positive")
	}
	if config.Quality.CompletenessWeight < 0 || config.Quality.UniquenessWeight < 0 {
		return errors.ConfigInvalid("quality weights must be non-negative")
	}
	if config.Quality.CompletenessWeight+config.Quality.UniquenessWeight == 0 {
		return errors.ConfigInvalid("at least one quality weight must be positive")
	}
	if config.Cache.TTL <= 0 {
		return errors.ConfigInvalid("CACHE_TTL_SECONDS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
