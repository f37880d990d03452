// Package config loads the host configuration: defaults, then the TOML
// file, then command-line flags, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bethropolis/waypoint/internal/input"
	"github.com/bethropolis/waypoint/internal/logger"
	"github.com/bethropolis/waypoint/internal/options"
	"github.com/bethropolis/waypoint/internal/store"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config             `toml:"logger"`
	Tour    options.Options           `toml:"tour"`
	Store   store.Config              `toml:"store"`
	UI      UIConfig                  `toml:"ui"`
	Metrics MetricsConfig             `toml:"metrics"`
	Plugins map[string]map[string]any `toml:"plugins"`
}

// UIConfig holds presenter settings.
type UIConfig struct {
	Theme           string `toml:"theme"`
	ThemesDir       string `toml:"themes_dir"`
	StatusBarHeight int    `toml:"status_bar_height"`
	Mouse           bool   `toml:"mouse"`
	SystemClipboard bool   `toml:"system_clipboard"`
	// Keys maps single characters to action names, e.g. x = "quit".
	Keys map[string]string `toml:"keys"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.Config{
			LogLevel:    "info",
			LogFilePath: "", // Empty means stderr unless the app picks a file
		},
		Tour:  options.Defaults(),
		Store: store.DefaultConfig(),
		UI: UIConfig{
			StatusBarHeight: StatusBarHeight,
			Mouse:           true,
			SystemClipboard: SystemClipboard,
		},
		Metrics: MetricsConfig{Addr: DefaultMetricsAddr},
		Plugins: map[string]map[string]any{},
	}
}

// DefaultPath returns ~/.config/waypoint/config.toml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, DefaultConfigFileName)
}

// loadFromFile decodes filePath over cfg. A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("Config file not found: %s", filePath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logger.Warnf("Config file '%s': Unrecognized keys: %v", filePath, undecoded)
	}
	logger.Infof("Loaded configuration from: %s", filePath)
	return nil
}

// Validate resets out-of-range presenter values to defaults and reports
// configuration that cannot be repaired.
func (c *Config) Validate() error {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	if c.UI.StatusBarHeight <= 0 {
		c.UI.StatusBarHeight = defaults.UI.StatusBarHeight
	}
	if c.Store.Backend == "" {
		c.Store.Backend = store.BackendMemory
	}
	if c.Plugins == nil {
		c.Plugins = map[string]map[string]any{}
	}

	if err := c.Tour.Validate(); err != nil {
		return fmt.Errorf("[tour]: %w", err)
	}
	switch c.Store.Backend {
	case store.BackendMemory, store.BackendFile, store.BackendRedis, store.BackendSQLite:
	default:
		return fmt.Errorf("[store]: unknown backend %q", c.Store.Backend)
	}
	for k, name := range c.UI.Keys {
		if len([]rune(k)) != 1 {
			return fmt.Errorf("[ui.keys]: %q is not a single character", k)
		}
		if _, ok := input.ParseAction(name); !ok {
			return fmt.Errorf("[ui.keys]: unknown action %q", name)
		}
	}
	return nil
}

// Load merges defaults, the config file and flag overrides, then
// validates. An empty configFilePath uses DefaultPath.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	path := configFilePath
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if flags != nil {
		flags.ApplyOverrides(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PluginValue reads [plugins.<name>] key.
func (c *Config) PluginValue(name, key string) (any, bool) {
	section, ok := c.Plugins[name]
	if !ok {
		return nil, false
	}
	v, ok := section[key]
	return v, ok
}

// Keybindings returns the [ui.keys] table parsed into actions.
func (c *Config) Keybindings() map[rune]input.Action {
	out := make(map[rune]input.Action, len(c.UI.Keys))
	for k, name := range c.UI.Keys {
		a, ok := input.ParseAction(name)
		r := []rune(k)
		if !ok || len(r) != 1 {
			continue
		}
		out[r[0]] = a
	}
	return out
}
