package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-RepairBookingService/internal/domain"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Booking   BookingConfig   `toml:"booking"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type BookingConfig struct {
	// Длительность по умолчанию для запросов без durationHours и для старых записей без длительности
	DefaultDurationHours  float64 `toml:"default_duration_hours"`
	SlotStepMinutes       int     `toml:"slot_step_minutes"`
	Timezone              string  `toml:"timezone"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	MaxTxRetries          int     `toml:"max_tx_retries"`
	TxRetryBaseDelayMs    int     `toml:"tx_retry_base_delay_ms"`
}

// Location часовой пояс, в котором определяются день недели и календарная дата бронирования
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	return loc, nil
}

func (b BookingConfig) RequestTimeout() time.Duration {
	return time.Duration(b.RequestTimeoutSeconds) * time.Second
}

func (b BookingConfig) TxRetryBaseDelay() time.Duration {
	return time.Duration(b.TxRetryBaseDelayMs) * time.Millisecond
}

type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "repair_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "repair_booking_service",
		},
		Booking: BookingConfig{
			DefaultDurationHours:  2.0,
			SlotStepMinutes:       30,
			Timezone:              "UTC",
			RequestTimeoutSeconds: 5,
			MaxTxRetries:          3,
			TxRetryBaseDelayMs:    20,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 5,
			Burst:             10,
		},
	}
}

// Load читает TOML-файл поверх значений по умолчанию, затем применяет переменные окружения.
// Файл .env (если есть) подгружается в окружение перед чтением переменных.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
		}
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, key, v)
		}
		*dst = n
		return nil
	}

	setString("DB_HOST", &c.Database.Host)
	setString("DB_USER", &c.Database.User)
	setString("DB_PASSWORD", &c.Database.Password)
	setString("DB_NAME", &c.Database.DBName)
	setString("DB_SSLMODE", &c.Database.SSLMode)
	setString("LOG_LEVEL", &c.Logs.Level)
	setString("LOG_FILE", &c.Logs.File)
	setString("BOOKING_TIMEZONE", &c.Booking.Timezone)

	if err := setInt("DB_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("HTTP_PORT", &c.Server.HTTPPort); err != nil {
		return err
	}
	return nil
}

// Validate проверяет значения, без которых сервис не может корректно работать
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database host and dbname are required", ErrInvalidConfig)
	}
	if err := domain.ValidateDurationHours(c.Booking.DefaultDurationHours); err != nil {
		return fmt.Errorf("%w: booking.default_duration_hours: %w", ErrInvalidConfig, err)
	}
	if c.Booking.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: booking.request_timeout_seconds must be positive", ErrInvalidConfig)
	}
	if c.Booking.MaxTxRetries < 0 {
		return fmt.Errorf("%w: booking.max_tx_retries must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return err
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second and burst", ErrInvalidConfig)
	}
	return nil
}
