// Package config handles loading and managing application configuration.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Server configuration
	Server ServerConfig

	// Native bridge configuration
	Bridge BridgeConfig

	// Security settings
	Security SecurityConfig

	// Logging settings
	Logging LoggingConfig

	// Build-time plugin options
	Plugin PluginConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string
	GinMode string // "debug", "release", or "test"
}

// BridgeConfig holds the native bridge configuration. An empty BaseURL means
// the native module is not linked.
type BridgeConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Linked reports whether a native bridge is configured.
func (b BridgeConfig) Linked() bool {
	return b.BaseURL != ""
}

// SecurityConfig holds security-related configuration.
type SecurityConfig struct {
	ServiceAPIKey string // Bearer token required on /api/v1 (optional)
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level       string
	Development bool
}

// PluginConfig points at the plugin options file checked at startup.
type PluginConfig struct {
	Path string // empty: no startup check
}

// Load reads configuration from environment variables.
// Returns a Config struct with all settings populated.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Bridge: BridgeConfig{
			BaseURL: getEnv("TELEBIRR_BRIDGE_URL", ""),
			APIKey:  getEnv("TELEBIRR_BRIDGE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("TELEBIRR_BRIDGE_TIMEOUT_SECONDS", 150)) * time.Second,
		},
		Security: SecurityConfig{
			ServiceAPIKey: getEnv("SERVICE_API_KEY", ""),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		Plugin: PluginConfig{
			Path: getEnv("TELEBIRR_PLUGIN_CONFIG", ""),
		},
	}
}

// getEnv retrieves an environment variable with a fallback default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as an integer with a fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as a boolean with a fallback.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
