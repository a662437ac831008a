// Package config handles application configuration management.
// It supports YAML files and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Well-known locations of the sticker trees on a device image.
const (
	DefaultPresetDir     = "/usr/share/sticker-panel/images"
	DefaultDownloadedDir = "/opt/usr/share/sticker-panel/images"
	DefaultUserDir       = DefaultPresetDir + "/.user"
	DefaultDBFile        = ".sticker_panel.db"
)

// DefaultSeedGroups are the preset groups registered on first start
var DefaultSeedGroups = []string{"Animal_Body", "Animal_Face", "Couple", "Kids", "Office", "Woman"}

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Player  PlayerConfig  `mapstructure:"player" yaml:"player"`
}

// CatalogConfig holds the sticker source roots and reconciliation settings
type CatalogConfig struct {
	PresetDir      string   `mapstructure:"preset_dir" yaml:"preset_dir"`
	DownloadedDir  string   `mapstructure:"downloaded_dir" yaml:"downloaded_dir"`
	UserDir        string   `mapstructure:"user_dir" yaml:"user_dir"`
	ReadOnlyPrefix string   `mapstructure:"readonly_prefix" yaml:"readonly_prefix"`
	Category       int      `mapstructure:"category" yaml:"category"`
	RecentLimit    int      `mapstructure:"recent_limit" yaml:"recent_limit"`
	FrameOrder     string   `mapstructure:"frame_order" yaml:"frame_order"`
	DeleteFiles    bool     `mapstructure:"delete_files" yaml:"delete_files"`
	SeedGroups     []string `mapstructure:"seed_groups" yaml:"seed_groups"`
}

// StorageConfig holds storage settings
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	DBFile  string `mapstructure:"db_file" yaml:"db_file"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	File   string `mapstructure:"file" yaml:"file"`
	Format string `mapstructure:"format" yaml:"format"`
}

// PlayerConfig holds scheduler timing settings
type PlayerConfig struct {
	FrameIntervalMS      int `mapstructure:"frame_interval_ms" yaml:"frame_interval_ms"`
	PopulationIntervalMS int `mapstructure:"population_interval_ms" yaml:"population_interval_ms"`
}

// Sources returns the preset roots in scan order
func (c CatalogConfig) Sources() []string {
	var roots []string
	for _, root := range []string{c.PresetDir, c.DownloadedDir} {
		if root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}

// DBPath returns the absolute path of the sticker database
func (s StorageConfig) DBPath() string {
	if filepath.IsAbs(s.DBFile) {
		return s.DBFile
	}
	return filepath.Join(s.DataDir, s.DBFile)
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	// Determine config directory
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, configDir)

	// Configure viper to read from config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK - we'll use defaults and env vars
	}

	// Environment variable overrides, e.g. STICKERPANEL_CATALOG_PRESET_DIR
	v.SetEnvPrefix("STICKERPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or env overrides exist
func Default() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, configDir)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("catalog.preset_dir", DefaultPresetDir)
	v.SetDefault("catalog.downloaded_dir", DefaultDownloadedDir)
	v.SetDefault("catalog.user_dir", DefaultUserDir)
	v.SetDefault("catalog.readonly_prefix", "/usr")
	v.SetDefault("catalog.category", 0)
	v.SetDefault("catalog.recent_limit", 40)
	v.SetDefault("catalog.frame_order", "path")
	v.SetDefault("catalog.delete_files", true)
	v.SetDefault("catalog.seed_groups", DefaultSeedGroups)

	v.SetDefault("storage.data_dir", configDir)
	v.SetDefault("storage.db_file", DefaultDBFile)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.format", "text")

	v.SetDefault("player.frame_interval_ms", 16)
	v.SetDefault("player.population_interval_ms", 0)
}

// Validate rejects settings the engine cannot run with
func (c *Config) Validate() error {
	if c.Catalog.RecentLimit <= 0 {
		return fmt.Errorf("catalog.recent_limit must be positive, got %d", c.Catalog.RecentLimit)
	}
	switch c.Catalog.FrameOrder {
	case "path", "order":
	default:
		return fmt.Errorf("catalog.frame_order must be \"path\" or \"order\", got %q", c.Catalog.FrameOrder)
	}
	if c.Storage.DBFile == "" {
		return fmt.Errorf("storage.db_file is required")
	}
	if c.Player.FrameIntervalMS <= 0 {
		return fmt.Errorf("player.frame_interval_ms must be positive, got %d", c.Player.FrameIntervalMS)
	}
	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) (string, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}

	// Ensure config directory exists
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")

	v := viper.New()
	v.Set("catalog", cfg.Catalog)
	v.Set("storage", cfg.Storage)
	v.Set("logging", cfg.Logging)
	v.Set("player", cfg.Player)

	if err := v.WriteConfigAs(configPath); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(configPath, 0600); err != nil {
		return "", fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return configPath, nil
}

// getConfigDir returns the configuration directory path
func getConfigDir() (string, error) {
	if configDir := os.Getenv("STICKERPANEL_CONFIG_DIR"); configDir != "" {
		return configDir, nil
	}

	// Use XDG_CONFIG_HOME if set
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "stickerpanel"), nil
	}

	// Fall back to ~/.config/stickerpanel
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, ".config", "stickerpanel"), nil
}

// GetConfigDir returns the configuration directory (exported for other packages)
func GetConfigDir() (string, error) {
	return getConfigDir()
}
