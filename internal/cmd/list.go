package cmd

import (
	"fmt"
	"os"

	"github.com/gobwas/glob"
	"github.com/spf13/cobra"

	"github.com/sidelock/sidelock/internal/config"
	"github.com/sidelock/sidelock/internal/lock"
	"github.com/sidelock/sidelock/internal/logging"
	"github.com/sidelock/sidelock/internal/scan"
)

var (
	listPattern   string
	listStaleOnly bool
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List sidecar locks under a directory tree",
	Long: `Walk a directory tree (default: the current directory), decode every
sidecar lock file found, and print who holds each lock. Stale and corrupt
sidecars are annotated so they can be swept.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listPattern, "pattern", "", "glob restricting which guarded files are listed (default from config)")
	listCmd.Flags().BoolVar(&listStaleOnly, "stale-only", false, "show only stale and corrupt locks")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	scanner, err := newScanner(cfg, logger, listPattern)
	if err != nil {
		return err
	}

	found, err := scanner.Scan(root)
	if err != nil {
		return err
	}

	printed := 0
	for _, f := range found {
		if listStaleOnly && !f.Stale {
			continue
		}
		printed++
		switch {
		case f.Corrupt:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tcorrupt lock file\n", f.TargetPath)
		case f.Stale:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tstale (was %s, pid %d, %s, %s ago)\n",
				f.TargetPath, f.Holder.AppName, f.Holder.PID, f.Holder.Hostname, formatDuration(f.Holder.Age()))
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\theld by %s (pid %d) on %s, %s ago\n",
				f.TargetPath, f.Holder.AppName, f.Holder.PID, f.Holder.Hostname, formatDuration(f.Holder.Age()))
		}
	}
	if printed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no locks found")
	}
	return nil
}

// newScanner builds a Scanner from cfg. An explicit pattern overrides the
// configured one; an empty configured pattern (or "**") means no filter.
func newScanner(cfg *config.Config, logger *logging.Logger, pattern string) (*scan.Scanner, error) {
	if pattern == "" {
		pattern = cfg.Scan.Pattern
	}

	opts := []scan.Option{
		scan.WithSuffix(cfg.Lock.Suffix),
		scan.WithFollowSymlinks(cfg.Scan.FollowSymlinks),
		scan.WithLogger(logger),
	}
	if pattern != "" && pattern != "**" {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		opts = append(opts, scan.WithPattern(g))
	}

	hostname, _ := os.Hostname()
	policy := lock.StalePolicy{
		Hostname: hostname,
		Liveness: lock.NewPlatformLiveness(),
		TTL:      cfg.Lock.StaleTTL(),
	}
	return scan.NewScanner(policy, opts...), nil
}
