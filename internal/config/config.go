package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"

	"hangarview/internal/domain"
	"hangarview/internal/eventbus"
)

// Config represents the application configuration
type Config struct {
	Version           int        `toml:"version"`
	ServerURL         string     `toml:"server_url"`
	PageSize          int        `toml:"page_size"`
	RequestTimeoutSec int        `toml:"request_timeout_sec"`
	DefaultSort       string     `toml:"default_sort"`
	UISettings        UISettings `toml:"ui"`
}

// RequestTimeout returns the request timeout as a duration
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// SortOrder returns the configured default sort as a domain type
func (c *Config) SortOrder() domain.SortOrder {
	return domain.SortOrder(c.DefaultSort)
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowTabCounts  bool `toml:"show_tab_counts"`
	AutosaveOnExit bool `toml:"autosave_on_exit"`
}

// envOverrides are applied on top of the file config. All variables are
// prefixed HANGARVIEW_, e.g. HANGARVIEW_SERVER_URL.
type envOverrides struct {
	ServerURL string `envconfig:"SERVER_URL"`
	PageSize  int    `envconfig:"PAGE_SIZE"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	appDir := filepath.Join(configDir, "hangarview")
	os.MkdirAll(appDir, 0755)

	return &configService{
		filePath: filepath.Join(appDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the default path, falling back to the
// default config when no file exists, and applies environment overrides.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = DefaultConfig()
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			ServerURL: cfg.ServerURL,
			PageSize:  cfg.PageSize,
		})
	}

	return cfg, nil
}

// Save saves the configuration to the default path
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	normalize(&cfg)
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("hangarview", &o); err != nil {
		return fmt.Errorf("failed to read environment overrides: %w", err)
	}
	if o.ServerURL != "" {
		cfg.ServerURL = o.ServerURL
	}
	if o.PageSize > 0 {
		cfg.PageSize = o.PageSize
	}
	return nil
}

// normalize fills in zero values so an older or hand-edited config file
// still yields a usable configuration
func normalize(cfg *Config) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 30
	}
	if cfg.RequestTimeoutSec <= 0 {
		cfg.RequestTimeoutSec = 10
	}
	if cfg.DefaultSort == "" {
		cfg.DefaultSort = string(domain.SortByName)
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:           1,
		ServerURL:         "http://localhost:8700",
		PageSize:          30,
		RequestTimeoutSec: 10,
		DefaultSort:       string(domain.SortByName),
		UISettings: UISettings{
			ShowTabCounts:  true,
			AutosaveOnExit: true,
		},
	}
}
