package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// StorageConfig selects and locates the backing stores.
type StorageConfig struct {
	// DataDir is the directory holding the embedded document database
	// and the device-local key-value store.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`

	// RemoteBaseURL, when set, points collections at a hosted document
	// store instead of the embedded one.
	RemoteBaseURL string `mapstructure:"remote_base_url" yaml:"remote_base_url"`
}

// FocusConfig holds the focus timer settings.
type FocusConfig struct {
	// DurationMinutes is the full countdown length. Defaults to 25.
	DurationMinutes int `mapstructure:"duration_minutes" yaml:"duration_minutes"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Focus   FocusConfig   `mapstructure:"focus" yaml:"focus"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/blossom/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "blossom", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := "data"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "blossom")
	}
	return &AppConfig{
		Storage: StorageConfig{DataDir: dataDir},
		Focus:   FocusConfig{DurationMinutes: 25},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.remote_base_url", "")
	v.SetDefault("focus.duration_minutes", 25)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Focus.DurationMinutes <= 0 {
		cfg.Focus.DurationMinutes = 25
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("focus", cfg.Focus)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
