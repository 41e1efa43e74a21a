// Package cmd wires the sidelock CLI together: configuration loading,
// logger construction, and the cobra command tree.
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sidelock/sidelock/internal/config"
	"github.com/sidelock/sidelock/internal/lock"
	"github.com/sidelock/sidelock/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "sidelock",
	Short: "Advisory sidecar locking for project files",
	Long: `Sidelock guards project files against concurrent edits by placing a
sidecar lock file (<file>.lock) next to them. The sidecar records the
holder's PID, hostname, and application name, so contention is explained
rather than silent, and locks left behind by crashed processes are
detected and reclaimed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/sidelock/config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	rootCmd.PersistentFlags().String("log-level", "", "minimum log level (debug/info/warn/error)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath("$HOME/.config/sidelock")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SIDELOCK")
	// Replace dots with underscores for nested keys in env vars
	// e.g., SIDELOCK_LOCK_STALE_TTL_MINUTES for lock.stale_ttl_minutes
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

// loadConfig returns the validated effective configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	return logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
}

// newManager builds a lock manager from cfg.
func newManager(cfg *config.Config, logger *logging.Logger, opts ...lock.Option) *lock.Manager {
	base := []lock.Option{
		lock.WithAppName(cfg.App.Name),
		lock.WithSuffix(cfg.Lock.Suffix),
		lock.WithStaleTTL(cfg.Lock.StaleTTL()),
		lock.WithLogger(logger),
	}
	return lock.NewManager(append(base, opts...)...)
}
