// Package config provides configuration loading from YAML files.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	WebSocket WebSocketConfig `yaml:"websocket"`
	Client    ClientConfig    `yaml:"client"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig represents HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr" default:":4000"`
}

// WebSocketConfig represents the event channel configuration.
type WebSocketConfig struct {
	HeartbeatIntervalSec int `yaml:"heartbeat_interval_sec" default:"25" validate:"gte=1"`
	ProbeIntervalSec     int `yaml:"probe_interval_sec" default:"30" validate:"gte=1"`
	WriteTimeoutMs       int `yaml:"write_timeout_ms" default:"5000" validate:"gte=100"`
	SendBuffer           int `yaml:"send_buffer" default:"256" validate:"gte=1"`
}

// HeartbeatInterval returns the application-level ping period.
func (w WebSocketConfig) HeartbeatInterval() time.Duration {
	return time.Duration(w.HeartbeatIntervalSec) * time.Second
}

// ProbeInterval returns the liveness probe period.
func (w WebSocketConfig) ProbeInterval() time.Duration {
	return time.Duration(w.ProbeIntervalSec) * time.Second
}

// WriteTimeout returns the per-frame write deadline.
func (w WebSocketConfig) WriteTimeout() time.Duration {
	return time.Duration(w.WriteTimeoutMs) * time.Millisecond
}

// ClientConfig represents the reconnect contract handed to clients.
type ClientConfig struct {
	ReconnectBaseMs      int `yaml:"reconnect_base_ms" default:"1000" validate:"gte=1"`
	ReconnectMaxMs       int `yaml:"reconnect_max_ms" default:"30000" validate:"gte=1"`
	MaxReconnectAttempts int `yaml:"max_reconnect_attempts" default:"10" validate:"gte=1"`
}

// StorageConfig represents the persistence backend configuration. Settings
// are backend-specific and decoded by the matching settings accessor.
type StorageConfig struct {
	Driver   string         `yaml:"driver" default:"sqlite3" validate:"oneof=sqlite3"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// SQLiteSettings represents sqlite3 driver settings.
type SQLiteSettings struct {
	Path string `yaml:"path" mapstructure:"path" default:"waxline.db" validate:"required"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Output string `yaml:"output" default:"stdout"`
	Level  string `yaml:"level" default:"info"`
}

// Load loads configuration from a YAML file. Environment variables take
// precedence over file values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	cfg.overrideFromEnv()

	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}
	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("WAXLINE_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("WAXLINE_DB_PATH"); v != "" {
		if c.Storage.Settings == nil {
			c.Storage.Settings = make(map[string]any)
		}
		c.Storage.Settings["path"] = v
	}
	if v := os.Getenv("WAXLINE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}
	if c.Client.ReconnectBaseMs > c.Client.ReconnectMaxMs {
		return errors.Newf("reconnect_base_ms (%d) must not exceed reconnect_max_ms (%d)",
			c.Client.ReconnectBaseMs, c.Client.ReconnectMaxMs)
	}
	return nil
}

// SQLite decodes the storage settings map for the sqlite3 driver.
func (c *Config) SQLite() (SQLiteSettings, error) {
	var settings SQLiteSettings
	if err := mapstructure.Decode(c.Storage.Settings, &settings); err != nil {
		return SQLiteSettings{}, errors.Wrap(err, "failed to decode sqlite settings")
	}
	if err := defaults.Set(&settings); err != nil {
		return SQLiteSettings{}, errors.Wrap(err, "failed to set sqlite defaults")
	}
	if err := validator.New().Struct(settings); err != nil {
		return SQLiteSettings{}, errors.Wrap(err, "sqlite settings validation failed")
	}
	return settings, nil
}
