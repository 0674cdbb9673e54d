package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Server settings
	Server ServerConfig `yaml:"server"`

	// Timer settings
	Timer TimerConfig `yaml:"timer"`

	// Local cache settings
	Cache CacheConfig `yaml:"cache"`

	// Billing settings
	Billing BillingConfig `yaml:"billing"`
}

type ServerConfig struct {
	BaseURL        string        `yaml:"base_url"`        // Practice-management API base URL
	RequestTimeout time.Duration `yaml:"request_timeout"` // Per-request timeout
}

type TimerConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`      // Local elapsed-time tick cadence
	SyncInterval      time.Duration `yaml:"sync_interval"`      // Server reconciliation cadence
	InactivityMinutes int           `yaml:"inactivity_minutes"` // Fallback until server settings load
}

type CacheConfig struct {
	Path string `yaml:"path"` // Path to the encrypted SQLite cache
}

type BillingConfig struct {
	Currency       string  `yaml:"currency"`         // ISO code used for display
	DefaultGroupBy string  `yaml:"default_group_by"` // none, project, or task
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Tax rate as decimal (0.0825 = 8.25%)
}

// DefaultConfigPath returns ~/.config/chrono/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "chrono", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "chrono", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:5000",
			RequestTimeout: 10 * time.Second,
		},
		Timer: TimerConfig{
			TickInterval:      time.Second,
			SyncInterval:      60 * time.Second,
			InactivityMinutes: 30,
		},
		Cache: CacheConfig{
			Path: filepath.Join(homeDir, ".config", "chrono", "cache.db"),
		},
		Billing: BillingConfig{
			Currency:       "USD",
			DefaultGroupBy: "none",
			DefaultTaxRate: 0.0,
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for the cache, etc.)
func (c *Config) EnsureDirectories() error {
	cacheDir := filepath.Dir(c.Cache.Path)
	return os.MkdirAll(cacheDir, 0700)
}

// InactivityTimeout returns the configured fallback inactivity timeout
func (c *Config) InactivityTimeout() time.Duration {
	return time.Duration(c.Timer.InactivityMinutes) * time.Minute
}
