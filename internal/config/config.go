// Package config handles application configuration via an INI file.
// Configuration lives at $XDG_CONFIG_HOME/tewi.conf (falling back to
// ~/.config/tewi.conf) and covers the daemon connection and UI settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"
)

// Config holds application configuration
type Config struct {
	Client ClientConfig
	UI     UIConfig
	Debug  DebugConfig
}

// ClientConfig holds Transmission RPC connection settings
type ClientConfig struct {
	Host     string `ini:"host"`
	Port     int    `ini:"port"`
	Username string `ini:"username"`
	Password string `ini:"password"`
}

// UIConfig holds presentation settings
type UIConfig struct {
	// ViewMode selects row rendering: card, compact, or oneline.
	ViewMode string `ini:"view_mode"`

	// PageSize is the number of torrents materialized per page.
	PageSize int `ini:"page_size"`

	// RefreshInterval is the daemon polling cadence in seconds.
	RefreshInterval int `ini:"refresh_interval"`
}

// DebugConfig holds troubleshooting settings
type DebugConfig struct {
	// Logs enables debug logging to the state directory.
	Logs bool `ini:"logs"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Client: ClientConfig{
			Host: "localhost",
			Port: 9091,
		},
		UI: UIConfig{
			ViewMode:        "card",
			PageSize:        30,
			RefreshInterval: 5,
		},
	}
}

// Path returns the config file location following XDG base directory conventions
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "tewi.conf")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tewi.conf")
}

// Load reads config from disk, applying defaults for anything absent
func Load() (Config, error) {
	cfg := Default()
	path := Path()

	if _, err := os.Stat(path); err != nil {
		// no config file, defaults apply
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := f.Section("client").MapTo(&cfg.Client); err != nil {
		return cfg, fmt.Errorf("invalid [client] section: %w", err)
	}
	if err := f.Section("ui").MapTo(&cfg.UI); err != nil {
		return cfg, fmt.Errorf("invalid [ui] section: %w", err)
	}
	if err := f.Section("debug").MapTo(&cfg.Debug); err != nil {
		return cfg, fmt.Errorf("invalid [debug] section: %w", err)
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the UI cannot run with
func (c Config) Validate() error {
	switch c.UI.ViewMode {
	case "card", "compact", "oneline":
	default:
		return fmt.Errorf("unknown view_mode %q", c.UI.ViewMode)
	}
	if c.UI.PageSize < 1 {
		return fmt.Errorf("page_size must be positive, got %d", c.UI.PageSize)
	}
	if c.UI.RefreshInterval < 1 {
		return fmt.Errorf("refresh_interval must be positive, got %d", c.UI.RefreshInterval)
	}
	return nil
}

// Save writes config to disk
func Save(cfg Config) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f := ini.Empty()
	if err := f.Section("client").ReflectFrom(&cfg.Client); err != nil {
		return err
	}
	if err := f.Section("ui").ReflectFrom(&cfg.UI); err != nil {
		return err
	}
	if err := f.Section("debug").ReflectFrom(&cfg.Debug); err != nil {
		return err
	}

	return f.SaveTo(path)
}
