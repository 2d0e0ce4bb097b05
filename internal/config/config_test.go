package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[database]
host = "db"
dbname = "bookings"

[booking]
default_duration_hours = 1.5
slot_step_minutes = 15
timezone = "Europe/Moscow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 1.5, cfg.Booking.DefaultDurationHours)
	assert.Equal(t, 15, cfg.Booking.SlotStepMinutes)
	assert.Equal(t, 5*time.Second, cfg.Booking.RequestTimeout())

	loc, err := cfg.Booking.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[database]
host = "db"
`)
	t.Setenv("DB_HOST", "postgres.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 8181, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoad_InvalidEnvNumber(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero default duration", func(c *Config) { c.Booking.DefaultDurationHours = 0 }},
		{"default duration finer than storage", func(c *Config) { c.Booking.DefaultDurationHours = 1.333 }},
		{"negative slot step", func(c *Config) { c.Booking.SlotStepMinutes = -5 }},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 70000 }},
		{"unknown timezone", func(c *Config) { c.Booking.Timezone = "Mars/Olympus" }},
		{"rate limit without burst", func(c *Config) { c.RateLimit.Burst = 0 }},
		{"no request timeout", func(c *Config) { c.Booking.RequestTimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}

	assert.NoError(t, defaults().Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "h", Port: 1, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", d.DSN())
}
