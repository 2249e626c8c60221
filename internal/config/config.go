// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIKey             string
	APIURL             string
	Username           string
	Range              string
	ActualTotalHours   float64
	OverrideTotalHours float64
	DatabasePath       string
	ProfilesPath       string
	RefreshInterval    time.Duration
	DailyGoalMinutes   int
}

// Default values
const (
	defaultRange           = "last_7_days"
	defaultRefreshInterval = 15 * time.Minute
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	envPaths := getEnvPaths()
	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIKey:             getEnvString("WAKATIME_API_KEY", ""),
		APIURL:             getEnvString("WAKATIME_API_URL", ""),
		Username:           getEnvString("WAKATIME_USERNAME", ""),
		Range:              getEnvString("WAKATIME_RANGE", defaultRange),
		ActualTotalHours:   getEnvFloat("ACTUAL_TOTAL_HOURS", 0),
		OverrideTotalHours: getEnvFloat("OVERRIDE_TOTAL_HOURS", 0),
		DatabasePath:       getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ProfilesPath:       getEnvString("PROFILES_PATH", getDefaultProfilesPath()),
		RefreshInterval:    getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		DailyGoalMinutes:   getEnvInt("DAILY_GOAL_MINUTES", 0),
	}

	// The proportional correction and the wholesale override fight over the
	// same total; refuse ambiguous configurations up front.
	if cfg.ActualTotalHours > 0 && cfg.OverrideTotalHours > 0 {
		return nil, fmt.Errorf(
			"ACTUAL_TOTAL_HOURS and OVERRIDE_TOTAL_HOURS are mutually exclusive; unset one")
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure profiles directory exists
	if err := ensureDir(filepath.Dir(cfg.ProfilesPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "wakadash", ".env"),
			filepath.Join(home, ".wakatime", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "history.db"
	}
	return filepath.Join(home, ".config", "wakadash", "history.db")
}

// getDefaultProfilesPath returns the default path for the profiles JSON file.
func getDefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "profiles.json"
	}
	return filepath.Join(home, ".config", "wakadash", "profiles.json")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
