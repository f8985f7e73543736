package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/meltforce/healthbridge/internal/models"
)

type Config struct {
	Platform  string          `yaml:"platform"`
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Bridge    BridgeConfig    `yaml:"bridge"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StoreConfig locates the on-device sample store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// BridgeConfig tunes the normalization service. Zero values mean the
// service defaults.
type BridgeConfig struct {
	DefaultLimit    int `yaml:"default_limit"`
	SleepGapMinutes int `yaml:"sleep_gap_minutes"`
	PollSeconds     int `yaml:"poll_seconds"`
	RecentMinutes   int `yaml:"recent_minutes"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// PollInterval returns the configured poll cadence, or zero for the default.
func (b BridgeConfig) PollInterval() time.Duration {
	return time.Duration(b.PollSeconds) * time.Second
}

// SessionGap returns the configured sleep-session gap, or zero for the default.
func (b BridgeConfig) SessionGap() time.Duration {
	return time.Duration(b.SleepGapMinutes) * time.Minute
}

// RecentWindow returns the configured subscription re-read window, or zero
// for the default.
func (b BridgeConfig) RecentWindow() time.Duration {
	return time.Duration(b.RecentMinutes) * time.Minute
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix HEALTHBRIDGE_ and underscore-separated paths:
//
//	HEALTHBRIDGE_PLATFORM,
//	HEALTHBRIDGE_SERVER_HOST, HEALTHBRIDGE_SERVER_PORT,
//	HEALTHBRIDGE_STORE_PATH,
//	HEALTHBRIDGE_AUTH_API_KEY,
//	HEALTHBRIDGE_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HEALTHBRIDGE_PLATFORM"); v != "" {
		cfg.Platform = v
	}
	if v := os.Getenv("HEALTHBRIDGE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("HEALTHBRIDGE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("HEALTHBRIDGE_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("HEALTHBRIDGE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("HEALTHBRIDGE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if !models.Platform(c.Platform).Valid() {
		return fmt.Errorf("platform must be %q or %q, got %q",
			models.PlatformHealthKit, models.PlatformHealthConnect, c.Platform)
	}
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}

// LogLevel parses the configured level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
