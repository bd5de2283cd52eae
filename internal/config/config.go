// Package config loads the application configuration (JSON, validated) and
// the collections file (YAML) describing each synchronized collection.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"

	_ "embed"
)

var configOnce sync.Once

var globalConfig *Config

var customConfigPath string // Custom config path set via --config flag

//go:embed config.sample.json
var sampleConfig []byte

const (
	ConfigDirName  = "nexussync"
	ConfigFileName = "config.json"
	configDirPerm  = 0755
	configFilePerm = 0644
)

// GatewayConfig points at the remote authority.
type GatewayConfig struct {
	URL string `json:"url" validate:"required,url"`
	// Name keys credential lookup (keyring service, env variable prefix).
	Name           string `json:"name,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
}

// StoreConfig selects where snapshots are persisted.
type StoreConfig struct {
	Driver string `json:"driver" validate:"oneof=sqlite file"`
	// Path is the database file (sqlite) or directory (file). Empty means
	// the XDG default.
	Path string `json:"path,omitempty"`
}

// Config is the application configuration.
type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	Store   StoreConfig   `json:"store"`

	// CollectionsFile is the YAML file listing synchronized collections.
	// Relative paths resolve against the config directory.
	CollectionsFile string `json:"collections_file,omitempty"`

	UI string `json:"ui" validate:"oneof=cli tui"`
}

// GatewayName returns the credential-lookup name, defaulting to "gateway".
func (c *Config) GatewayName() string {
	if c.Gateway.Name != "" {
		return c.Gateway.Name
	}
	return "gateway"
}

// SetConfigPath overrides the config file location (used by --config).
// Must be called before GetConfig.
func SetConfigPath(path string) {
	customConfigPath = path
}

// ConfigDir returns the XDG-compliant configuration directory.
func ConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, ConfigDirName), nil
}

// ConfigPath returns the effective config file path.
func ConfigPath() (string, error) {
	if customConfigPath != "" {
		return customConfigPath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// GetConfig loads the configuration once. A missing config file is created
// from the embedded sample so a first run leaves something to edit.
func GetConfig() *Config {
	configOnce.Do(func() {
		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load config: %v\n", err)
			cfg = &Config{
				Store: StoreConfig{Driver: "file"},
				UI:    "cli",
			}
		}
		globalConfig = cfg
	})
	return globalConfig
}

// Load reads and validates a config file at an explicit path. Exposed for
// tests; GetConfig is the application entry point.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func loadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if customConfigPath != "" {
			return nil, fmt.Errorf("config file %s does not exist", path)
		}
		if err := writeSample(path); err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "Created sample config at %s, edit it before syncing.\n", path)
	}

	return Load(path)
}

func applyDefaults(cfg *Config) {
	if cfg.UI == "" {
		cfg.UI = "cli"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "file"
	}
	if cfg.CollectionsFile == "" {
		cfg.CollectionsFile = "collections.yaml"
	}
}

// ResolveCollectionsFile resolves the collections file path against the
// config directory when it is relative.
func (c *Config) ResolveCollectionsFile() (string, error) {
	if filepath.IsAbs(c.CollectionsFile) {
		return c.CollectionsFile, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.CollectionsFile), nil
}

func writeSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), configDirPerm); err != nil {
		return err
	}
	return os.WriteFile(path, sampleConfig, configFilePerm)
}
