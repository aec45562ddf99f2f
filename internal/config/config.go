package config

import (
	"os"
	"strconv"

	"gocausal/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Database  DatabaseConfig
	Engine    EngineConfig
	Profiling ProfilingConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig points at a spreadsheet source (.xlsx or .csv). Empty means
// no file source is configured.
type DataConfig struct {
	File string
}

// DatabaseConfig holds the optional Postgres observation store settings.
// An empty URL means no database source is configured.
type DatabaseConfig struct {
	URL   string
	Table string
}

// EngineConfig holds the validation engine parameters. The gate floors
// default to the documented thresholds and rarely need changing.
type EngineConfig struct {
	MaxLag            int
	SignificanceLevel float64
	CorrelationFloor  float64
	InterventionFloor float64
	StabilityFloor    float64
	BatchWorkers      int
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it.
// Data sources are optional: with neither DATA_FILE nor DATABASE_URL set
// the engine runs on the synthetic fixture.
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			File: getEnvOrDefault("DATA_FILE", ""),
		},
		Database: DatabaseConfig{
			URL:   getEnvOrDefault("DATABASE_URL", ""),
			Table: getEnvOrDefault("OBSERVATIONS_TABLE", "observations"),
		},
		Engine: EngineConfig{
			MaxLag:            getEnvIntOrDefault("MAX_LAG", 10),
			SignificanceLevel: getEnvFloatOrDefault("SIGNIFICANCE_LEVEL", 0.05),
			CorrelationFloor:  getEnvFloatOrDefault("CORRELATION_FLOOR", 0.3),
			InterventionFloor: getEnvFloatOrDefault("INTERVENTION_FLOOR", 0.15),
			StabilityFloor:    getEnvFloatOrDefault("STABILITY_FLOOR", 0.7),
			BatchWorkers:      getEnvIntOrDefault("BATCH_WORKERS", 4),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Engine.MaxLag < 1 {
		return errors.ConfigInvalid("MAX_LAG must be at least 1")
	}
	if config.Engine.SignificanceLevel <= 0 || config.Engine.SignificanceLevel >= 1 {
		return errors.ConfigInvalid("SIGNIFICANCE_LEVEL must be in (0, 1)")
	}
	if config.Engine.BatchWorkers < 1 {
		return errors.ConfigInvalid("BATCH_WORKERS must be at least 1")
	}
	if config.Database.URL != "" && config.Database.Table == "" {
		return errors.ConfigInvalid("OBSERVATIONS_TABLE is required when DATABASE_URL is set")
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
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
