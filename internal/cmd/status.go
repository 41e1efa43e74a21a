package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sidelock/sidelock/internal/lock"
)

var statusCmd = &cobra.Command{
	Use:   "status <file>",
	Short: "Report whether a file is locked",
	Long: `Classify the lock state of a file as one of:

  free   no sidecar exists
  held   a sidecar exists and its holder is live
  stale  a sidecar exists but its holder is gone (or it is corrupt)

The exit code is 0 for free, 1 for held, and 2 for stale, so scripts can
branch without parsing output.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	canonical, err := lock.Canonicalize(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	hostname, _ := os.Hostname()
	policy := lock.StalePolicy{
		Hostname: hostname,
		Liveness: lock.NewPlatformLiveness(),
		TTL:      cfg.Lock.StaleTTL(),
	}

	h, err := lock.ReadHolder(lock.SidecarPath(canonical, cfg.Lock.Suffix))
	switch {
	case os.IsNotExist(err):
		fmt.Fprintf(cmd.OutOrStdout(), "free\n")
		return nil
	case err != nil:
		fmt.Fprintf(cmd.OutOrStdout(), "stale (corrupt lock file)\n")
		return ExitCode(2)
	case policy.Stale(h):
		fmt.Fprintf(cmd.OutOrStdout(), "stale (was %s, pid %d, %s)\n", h.AppName, h.PID, h.Hostname)
		return ExitCode(2)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "held by %s (pid %d) on %s\n", h.AppName, h.PID, h.Hostname)
		return ExitCode(1)
	}
}

// ExitCode is an error that carries a process exit status. main unwraps it
// instead of printing a message, so scripted callers get a clean code.
type ExitCode int

func (e ExitCode) Error() string {
	return fmt.Sprintf("exit code %d", int(e))
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}
