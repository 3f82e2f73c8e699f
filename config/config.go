package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the checkers
type Config struct {
	Supabase SupabaseConfig
	Checker  CheckerConfig
	Database DatabaseConfig
	Logging  LoggingConfig
}

// SupabaseConfig holds Supabase REST API configuration
type SupabaseConfig struct {
	URL    string
	APIKey string
}

// CheckerConfig holds embedding integrity checker configuration
type CheckerConfig struct {
	// SampleLimit bounds how many chunk rows one run fetches
	SampleLimit int
	// ExpectedDimension is the embedding vector length the store should hold
	ExpectedDimension int
	// MaxMagnitude bounds the absolute value of any embedding element
	MaxMagnitude float64
}

// DatabaseConfig holds the optional direct PostgreSQL connection used by the
// deep structural check. Empty DSN disables the deep check.
type DatabaseConfig struct {
	DSN string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Supabase: SupabaseConfig{
			URL:    getEnv("SUPABASE_URL", ""),
			APIKey: getEnv("SUPABASE_API_KEY", ""),
		},
		Checker: CheckerConfig{
			SampleLimit:       getIntEnv("CHECKER_SAMPLE_LIMIT", 20),
			ExpectedDimension: getIntEnv("CHECKER_EXPECTED_DIMENSION", 1536),
			MaxMagnitude:      getFloatEnv("CHECKER_MAX_MAGNITUDE", 1e6),
		},
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_DSN", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv gets integer from environment variable with default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getFloatEnv gets float from environment variable with default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return &ConfigError{Field: "SUPABASE_URL", Message: "Supabase URL is required"}
	}
	if c.Supabase.APIKey == "" {
		return &ConfigError{Field: "SUPABASE_API_KEY", Message: "Supabase API key is required"}
	}
	if c.Checker.SampleLimit <= 0 {
		return &ConfigError{Field: "CHECKER_SAMPLE_LIMIT", Message: "sample limit must be positive"}
	}
	if c.Checker.ExpectedDimension <= 0 {
		return &ConfigError{Field: "CHECKER_EXPECTED_DIMENSION", Message: "expected dimension must be positive"}
	}
	if c.Checker.MaxMagnitude <= 0 {
		return &ConfigError{Field: "CHECKER_MAX_MAGNITUDE", Message: "magnitude bound must be positive"}
	}
	return nil
}

// ConfigError represents configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
