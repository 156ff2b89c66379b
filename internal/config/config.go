// Package config loads grantdesk settings with Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Backends a session can persist to.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Config holds every grantdesk setting.
type Config struct {
	Backend        string `mapstructure:"backend" yaml:"backend"`
	APIURL         string `mapstructure:"api_url" yaml:"api_url"`
	MediaURL       string `mapstructure:"media_url" yaml:"media_url"`
	Token          string `mapstructure:"token" yaml:"token,omitempty"`
	DBPath         string `mapstructure:"db_path" yaml:"db_path"`
	StateFile      string `mapstructure:"state_file" yaml:"state_file"`
	LogLevel       string `mapstructure:"log_level" yaml:"log_level"`
	LogMode        string `mapstructure:"log_mode" yaml:"log_mode"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
	TemplateID     string `mapstructure:"template_id" yaml:"template_id,omitempty"`
	ServiceID      string `mapstructure:"service_id" yaml:"service_id,omitempty"`
}

var keys = []string{
	"backend", "api_url", "media_url", "token", "db_path", "state_file",
	"log_level", "log_mode", "timeout_seconds", "max_retries",
	"template_id", "service_id",
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Backend:        BackendRemote,
		APIURL:         "http://localhost:8000/api",
		MediaURL:       "http://localhost:8000",
		DBPath:         filepath.Join(DataDir(), "grantdesk.db"),
		StateFile:      filepath.Join(DataDir(), "session.yml"),
		LogLevel:       "warn",
		LogMode:        "prod",
		TimeoutSeconds: 30,
		MaxRetries:     1,
	}
}

// Load resolves settings with the precedence
// env > project file > global file > defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	def := Default()
	v.SetDefault("backend", def.Backend)
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("media_url", def.MediaURL)
	v.SetDefault("token", "")
	v.SetDefault("db_path", def.DBPath)
	v.SetDefault("state_file", def.StateFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_mode", def.LogMode)
	v.SetDefault("timeout_seconds", def.TimeoutSeconds)
	v.SetDefault("max_retries", def.MaxRetries)
	v.SetDefault("template_id", "")
	v.SetDefault("service_id", "")

	v.SetEnvPrefix("GRANTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range keys {
		if err := v.BindEnv(key, "GRANTDESK_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	if path := GlobalPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}
	if path := ProjectPath(); fileExists(path) {
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendRemote, BackendLocal:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", BackendRemote, BackendLocal, c.Backend)
	}
	if c.Backend == BackendRemote && c.APIURL == "" {
		return fmt.Errorf("api_url is required for the remote backend")
	}
	if c.TimeoutSeconds < 0 || c.MaxRetries < 0 {
		return fmt.Errorf("timeout_seconds and max_retries must not be negative")
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GlobalPath returns $XDG_CONFIG_HOME/grantdesk/grantdesk.yml, falling
// back to ~/.config.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "grantdesk", "grantdesk.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "grantdesk", "grantdesk.yml")
}

// ProjectPath is the config file in the working directory.
func ProjectPath() string {
	return "grantdesk.yml"
}

// DataDir holds the local database and session state.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "grantdesk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "grantdesk")
}

// WriteGlobal writes cfg to GlobalPath. The file may hold a token, so it
// is only readable by the owner.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
