package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MILANA_ADDR", "MILANA_DB_PATH", "MILANA_TABLE_YEAR", "MILANA_TABLES_DIR",
		"MILANA_RELOAD_INTERVAL", "MILANA_LOG_LEVEL", "MILANA_LOG_FORMAT", "MILANA_CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "milana.db", cfg.DBPath)
	assert.Equal(t, 2026, cfg.TableYear)
	assert.Empty(t, cfg.TablesDir)
	assert.Equal(t, 5*time.Minute, cfg.ReloadInterval)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Empty(t, cfg.CORSOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("MILANA_ADDR", ":9090")
	t.Setenv("MILANA_DB_PATH", ":memory:")
	t.Setenv("MILANA_TABLE_YEAR", "2027")
	t.Setenv("MILANA_TABLES_DIR", "/etc/milana/tables")
	t.Setenv("MILANA_RELOAD_INTERVAL", "0")
	t.Setenv("MILANA_LOG_LEVEL", "debug")
	t.Setenv("MILANA_LOG_FORMAT", "json")
	t.Setenv("MILANA_CORS_ORIGINS", "https://a.example, ,https://b.example")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, 2027, cfg.TableYear)
	assert.Equal(t, "/etc/milana/tables", cfg.TablesDir)
	assert.Zero(t, cfg.ReloadInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("MILANA_TABLE_YEAR", "next")
	t.Setenv("MILANA_RELOAD_INTERVAL", "often")

	cfg := Load()

	assert.Equal(t, 2026, cfg.TableYear)
	assert.Equal(t, 5*time.Minute, cfg.ReloadInterval)
}

func TestValidate(t *testing.T) {
	valid := Config{Addr: ":8080", DBPath: "milana.db", TableYear: 2026, ReloadInterval: time.Minute, LogLevel: "info", LogFormat: "text"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty address", func(c *Config) { c.Addr = " " }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero year", func(c *Config) { c.TableYear = 0 }},
		{"negative interval", func(c *Config) { c.ReloadInterval = -time.Second }},
		{"unknown level", func(c *Config) { c.LogLevel = "loud" }},
		{"unknown format", func(c *Config) { c.LogFormat = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogger(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())
	defer logrus.SetFormatter(logrus.StandardLogger().Formatter)

	cfg := Config{LogLevel: "warn", LogFormat: "json"}
	require.NoError(t, cfg.Logger())

	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)
}
