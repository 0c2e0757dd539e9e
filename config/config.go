// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Batch    BatchConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port      int
	Env       string
	LogLevel  string
	CompanyID string // holidays of this company are merged into requests
}

type DatabaseConfig struct {
	Path string
}

type CORSConfig struct {
	Origins []string
}

// BatchConfig bounds batch fan-out; Workers <= 0 means GOMAXPROCS.
type BatchConfig struct {
	Workers int
	MaxSize int
}

// Load reads .env files (default ".env"; a missing file is not an error)
// and then the environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	config := &Config{}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	config.App = AppConfig{
		Port:      appPort,
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		CompanyID: getEnv("COMPANY_ID", ""),
	}

	config.Database = DatabaseConfig{
		Path: getEnv("DB_PATH", "./data/payroll.db"),
	}

	config.CORS = CORSConfig{
		Origins: getEnvSlice("CORS_ORIGINS"),
	}
	if len(config.CORS.Origins) == 0 {
		config.CORS.Origins = []string{"*"}
	}

	workers, err := strconv.Atoi(getEnv("BATCH_WORKERS", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_WORKERS: %w", err)
	}
	maxSize, err := strconv.Atoi(getEnv("BATCH_MAX_SIZE", "500"))
	if err != nil {
		return nil, fmt.Errorf("invalid BATCH_MAX_SIZE: %w", err)
	}
	config.Batch = BatchConfig{Workers: workers, MaxSize: maxSize}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be 1-65535, got %d", c.App.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DB_PATH is required")
	}
	if c.Batch.MaxSize <= 0 {
		return fmt.Errorf("BATCH_MAX_SIZE must be positive, got %d", c.Batch.MaxSize)
	}
	if _, err := ParseLevel(c.App.LogLevel); err != nil {
		return err
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	l, _ := ParseLevel(c.App.LogLevel)
	return l
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return l, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getEnvSlice splits a comma-separated variable, dropping empty items.
func getEnvSlice(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
