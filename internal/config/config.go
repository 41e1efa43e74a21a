// Package config loads and validates the sidelock configuration via viper.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete sidelock configuration
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Lock    LockConfig    `mapstructure:"lock"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig identifies this application in sidecar metadata
type AppConfig struct {
	// Name is the application name recorded in lock files (default: "sidelock")
	Name string `mapstructure:"name"`
}

// LockConfig controls the sidecar lock protocol
type LockConfig struct {
	// Suffix is appended to a file's canonical path to form its sidecar path
	Suffix string `mapstructure:"suffix"`
	// StaleTTLMinutes is the age in minutes after which a lock from another
	// host is treated as stale. 0 disables age-based reclaim; same-host
	// locks are always judged by PID liveness instead.
	StaleTTLMinutes int `mapstructure:"stale_ttl_minutes"`
}

// StaleTTL returns the age-based staleness threshold as a duration.
func (c *LockConfig) StaleTTL() time.Duration {
	return time.Duration(c.StaleTTLMinutes) * time.Minute
}

// ScanConfig controls directory scans for lock files
type ScanConfig struct {
	// Pattern is a glob matched against scanned file paths (default: "**")
	Pattern string `mapstructure:"pattern"`
	// FollowSymlinks controls whether directory symlinks are descended into
	FollowSymlinks bool `mapstructure:"follow_symlinks"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	// Level is the minimum level to log: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Dir is the directory for the JSON log file; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name: "sidelock",
		},
		Lock: LockConfig{
			Suffix:          ".lock",
			StaleTTLMinutes: 0,
		},
		Scan: ScanConfig{
			Pattern:        "**",
			FollowSymlinks: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
	}
}

// SetDefaults registers all defaults with viper so they are available even
// without a config file
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("app.name", defaults.App.Name)

	viper.SetDefault("lock.suffix", defaults.Lock.Suffix)
	viper.SetDefault("lock.stale_ttl_minutes", defaults.Lock.StaleTTLMinutes)

	viper.SetDefault("scan.pattern", defaults.Scan.Pattern)
	viper.SetDefault("scan.follow_symlinks", defaults.Scan.FollowSymlinks)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load unmarshals the current viper state into a validated Config
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory where the sidelock config file lives
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sidelock")
	}
	// Fall back to ~/.config/sidelock
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sidelock"
	}
	return filepath.Join(home, ".config", "sidelock")
}
