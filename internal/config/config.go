package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/t77yq/lifeos/internal/model"
	"github.com/t77yq/lifeos/internal/notify"
	"github.com/t77yq/lifeos/internal/storage"
)

// Config is the process configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Assist    AssistConfig    `mapstructure:"assist"`
	Monitor   MonitorConfig   `mapstructure:"monitor"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
}

type StorageConfig struct {
	Driver   string         `mapstructure:"driver"`
	SQLite   PathConfig     `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	File     PathConfig     `mapstructure:"file"`
}

type PathConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SchedulerConfig struct {
	// NotificationSpec is a six field cron expression, seconds first
	NotificationSpec string `mapstructure:"notification_spec"`
	// SuggestionSpec is empty when suggestion scanning is off
	SuggestionSpec string `mapstructure:"suggestion_spec"`
}

type NATSConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	URL            string        `mapstructure:"url"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

type AssistConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Accounts []string      `mapstructure:"accounts"`
}

type MonitorConfig struct {
	// StatsSpec is empty when stats collection is off
	StatsSpec string `mapstructure:"stats_spec"`
	// Thresholds of zero disable the matching alert rule
	OverdueThreshold     int `mapstructure:"overdue_threshold"`
	SyncFailureThreshold int `mapstructure:"sync_failure_threshold"`
}

type NotifyConfig struct {
	Email EmailConfig `mapstructure:"email"`
}

type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Host       string   `mapstructure:"host"`
	Port       int      `mapstructure:"port"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	From       string   `mapstructure:"from"`
	Recipients []string `mapstructure:"recipients"`
	Types      []string `mapstructure:"types"`
}

// Load reads config.yaml from path, or from ./config when path is empty.
// A missing file is not an error; defaults and LIFEOS_* environment
// variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("LIFEOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lifeos")
	v.SetDefault("storage.driver", storage.DriverSQLite)
	v.SetDefault("storage.sqlite.path", "data/lifeos.db")
	v.SetDefault("storage.postgres.dsn", "")
	v.SetDefault("storage.file.path", "data/lifeos.yaml")
	v.SetDefault("sync.interval", 5*time.Second)
	v.SetDefault("scheduler.notification_spec", "0 */5 * * * *")
	v.SetDefault("scheduler.suggestion_spec", "")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", 2*time.Second)
	v.SetDefault("nats.connect_timeout", 5*time.Second)
	v.SetDefault("assist.base_url", "")
	v.SetDefault("assist.timeout", 30*time.Second)
	v.SetDefault("assist.accounts", []string{})
	v.SetDefault("monitor.stats_spec", "30 * * * * *")
	v.SetDefault("monitor.overdue_threshold", 5)
	v.SetDefault("monitor.sync_failure_threshold", 3)
	v.SetDefault("notify.email.enabled", false)
	v.SetDefault("notify.email.port", 587)
	v.SetDefault("notify.email.from", "lifeos@localhost")
	v.SetDefault("notify.email.recipients", []string{})
	v.SetDefault("notify.email.types", []string{string(model.NotificationAlert)})
}

// Validate checks values that would otherwise fail deep inside startup
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverFile:
	case storage.DriverPostgres:
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported storage driver: %q", c.Storage.Driver)
	}
	if c.Sync.Interval <= 0 {
		return fmt.Errorf("sync.interval must be positive, got %s", c.Sync.Interval)
	}
	if c.Monitor.OverdueThreshold < 0 || c.Monitor.SyncFailureThreshold < 0 {
		return fmt.Errorf("monitor thresholds must not be negative")
	}
	if c.Notify.Email.Enabled && (c.Notify.Email.Host == "" || len(c.Notify.Email.Recipients) == 0) {
		return fmt.Errorf("notify.email needs a host and at least one recipient when enabled")
	}
	return nil
}

// StorageOptions converts the storage section for storage.Open
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Driver:      c.Storage.Driver,
		SQLitePath:  c.Storage.SQLite.Path,
		PostgresDSN: c.Storage.Postgres.DSN,
		FilePath:    c.Storage.File.Path,
	}
}

// EmailOptions converts the notify.email section for notify.NewEmailNotifier
func (c *Config) EmailOptions() notify.EmailConfig {
	email := c.Notify.Email
	types := make([]model.NotificationType, 0, len(email.Types))
	for _, t := range email.Types {
		types = append(types, model.NotificationType(t))
	}
	return notify.EmailConfig{
		Host:       email.Host,
		Port:       email.Port,
		Username:   email.Username,
		Password:   email.Password,
		From:       email.From,
		Recipients: email.Recipients,
		Types:      types,
	}
}
