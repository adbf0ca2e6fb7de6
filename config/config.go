// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Addr           string
	DBPath         string
	TableYear      int
	TablesDir      string
	ReloadInterval time.Duration
	LogLevel       string
	LogFormat      string
	CORSOrigins    []string
}

func Load() Config {
	return Config{
		Addr:           getEnv("MILANA_ADDR", ":8080"),
		DBPath:         getEnv("MILANA_DB_PATH", "milana.db"),
		TableYear:      getEnvInt("MILANA_TABLE_YEAR", 2026),
		TablesDir:      getEnv("MILANA_TABLES_DIR", ""),
		ReloadInterval: getEnvDuration("MILANA_RELOAD_INTERVAL", 5*time.Minute),
		LogLevel:       getEnv("MILANA_LOG_LEVEL", "info"),
		LogFormat:      getEnv("MILANA_LOG_FORMAT", "text"),
		CORSOrigins:    getEnvList("MILANA_CORS_ORIGINS"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("MILANA_ADDR must not be empty")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("MILANA_DB_PATH must not be empty")
	}
	if c.TableYear <= 0 {
		return fmt.Errorf("MILANA_TABLE_YEAR must be a positive year")
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("MILANA_RELOAD_INTERVAL must not be negative")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("MILANA_LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("MILANA_LOG_FORMAT must be text or json")
	}
	return nil
}

// Logger applies the level and format to the standard logrus logger.
func (c Config) Logger() error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
