package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/claude/liftadapt/internal/models"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Engine    EngineConfig    `yaml:"engine"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on a tailnet instead of a plain listener.
// When enabled, callers are identified by their tailnet login.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// EngineConfig seeds users who have no stored preferences.
type EngineConfig struct {
	DefaultFocus     string  `yaml:"default_focus"`
	DefaultReadiness float64 `yaml:"default_readiness"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Focus returns the configured default focus, or models.DefaultFocus.
func (e EngineConfig) Focus() models.AestheticFocus {
	if f, err := models.ParseFocus(e.DefaultFocus); err == nil {
		return f
	}
	return models.DefaultFocus
}

// Readiness returns the configured default readiness, or models.DefaultReadiness.
func (e EngineConfig) Readiness() float64 {
	if models.ValidReadiness(e.DefaultReadiness) {
		return e.DefaultReadiness
	}
	return models.DefaultReadiness
}

// SlogLevel maps the configured level name to a slog.Level. Unknown or
// empty names give slog.LevelInfo.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTADAPT_ and underscore-separated paths:
//
//	LIFTADAPT_SERVER_HOST, LIFTADAPT_SERVER_PORT,
//	LIFTADAPT_DB_HOST, LIFTADAPT_DB_PORT, LIFTADAPT_DB_NAME,
//	LIFTADAPT_DB_USER, LIFTADAPT_DB_PASSWORD, LIFTADAPT_DB_SSLMODE,
//	LIFTADAPT_AUTH_API_KEY,
//	LIFTADAPT_TAILSCALE_ENABLED, LIFTADAPT_TAILSCALE_HOSTNAME, LIFTADAPT_TAILSCALE_STATE_DIR,
//	LIFTADAPT_ENGINE_DEFAULT_FOCUS, LIFTADAPT_ENGINE_DEFAULT_READINESS,
//	LIFTADAPT_LOG_LEVEL
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

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func applyEnvOverrides(cfg *Config) {
	envString("LIFTADAPT_SERVER_HOST", &cfg.Server.Host)
	envInt("LIFTADAPT_SERVER_PORT", &cfg.Server.Port)
	envString("LIFTADAPT_DB_HOST", &cfg.Database.Host)
	envInt("LIFTADAPT_DB_PORT", &cfg.Database.Port)
	envString("LIFTADAPT_DB_NAME", &cfg.Database.Name)
	envString("LIFTADAPT_DB_USER", &cfg.Database.User)
	envString("LIFTADAPT_DB_PASSWORD", &cfg.Database.Password)
	envString("LIFTADAPT_DB_SSLMODE", &cfg.Database.SSLMode)
	envString("LIFTADAPT_AUTH_API_KEY", &cfg.Auth.APIKey)
	envBool("LIFTADAPT_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled)
	envString("LIFTADAPT_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	envString("LIFTADAPT_TAILSCALE_STATE_DIR", &cfg.Tailscale.StateDir)
	envString("LIFTADAPT_ENGINE_DEFAULT_FOCUS", &cfg.Engine.DefaultFocus)
	envFloat("LIFTADAPT_ENGINE_DEFAULT_READINESS", &cfg.Engine.DefaultReadiness)
	envString("LIFTADAPT_LOG_LEVEL", &cfg.Log.Level)
}

func (c *Config) validate() error {
	if c.Tailscale.Enabled {
		if c.Tailscale.Hostname == "" {
			return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
		}
	} else if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Engine.DefaultFocus != "" {
		if _, err := models.ParseFocus(c.Engine.DefaultFocus); err != nil {
			return fmt.Errorf("engine.default_focus: %w", err)
		}
	}
	if c.Engine.DefaultReadiness != 0 && !models.ValidReadiness(c.Engine.DefaultReadiness) {
		return fmt.Errorf("engine.default_readiness must be between 1 and 10")
	}
	return nil
}
