package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/carewave/appointment-service/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Redis       RedisConfig       `toml:"redis"`
	Cache       CacheConfig       `toml:"cache"`
	Booking     BookingConfig     `toml:"booking"`
	Reconciler  ReconcilerConfig  `toml:"reconciler"`
	UserService UserServiceConfig `toml:"userservice"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig настройки кэша доступности
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
}

// BookingConfig бизнес-параметры бронирования
type BookingConfig struct {
	AdvanceNoticeHours int `toml:"advance_notice_hours"`
	GracePeriodMinutes int `toml:"grace_period_minutes"`
}

// ReconcilerConfig настройки фоновой сверки кэша
type ReconcilerConfig struct {
	Enabled        bool   `toml:"enabled"`
	Schedule       string `toml:"schedule"` // cron-выражение
	HorizonDays    int    `toml:"horizon_days"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

// UserServiceConfig настройки клиента UserService
type UserServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки метрик Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Load загружает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = domain.DefaultCacheTTLSeconds
	}
	if c.Booking.AdvanceNoticeHours == 0 {
		c.Booking.AdvanceNoticeHours = domain.DefaultAdvanceNoticeHours
	}
	if c.Booking.GracePeriodMinutes == 0 {
		c.Booking.GracePeriodMinutes = domain.DefaultGracePeriodMinutes
	}
	if c.Reconciler.Schedule == "" {
		c.Reconciler.Schedule = "*/5 * * * *"
	}
	if c.Reconciler.HorizonDays == 0 {
		c.Reconciler.HorizonDays = domain.DefaultAvailabilityDays
	}
	if c.Reconciler.LockTTLSeconds == 0 {
		c.Reconciler.LockTTLSeconds = domain.DefaultReconcileLockTTLSec
	}
	if c.UserService.Timeout == 0 {
		c.UserService.Timeout = 5
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
}
