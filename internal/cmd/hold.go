package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/lock"
)

var holdCmd = &cobra.Command{
	Use:   "hold <file>...",
	Short: "Acquire locks and hold them until interrupted",
	Long: `Acquire the sidecar lock for each given file and keep holding until
SIGINT or SIGTERM, then release everything. This lets scripts and tests
stand in for an editor process:

  sidelock hold projects/site.qet &
  ...
  kill %1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runHold,
}

func init() {
	rootCmd.AddCommand(holdCmd)
}

func runHold(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	bus := event.NewBus()
	bus.Subscribe("lock.reclaimed", func(e event.Event) {
		r := e.(event.LockReclaimedEvent)
		fmt.Fprintf(cmd.OutOrStdout(), "reclaimed stale lock on %s (was %s, pid %d, %s)\n",
			r.Path, r.AppName, r.PID, r.Hostname)
	})

	mgr := newManager(cfg, logger, lock.WithBus(bus))
	defer mgr.ReleaseAll()

	var failed bool
	for _, path := range args {
		if mgr.TryAcquire(path) {
			fmt.Fprintf(cmd.OutOrStdout(), "locked %s\n", path)
			continue
		}
		failed = true
		if h, ok := mgr.Inspect(path); ok {
			fmt.Fprintf(cmd.ErrOrStderr(), "cannot lock %s: held by %s (pid %d) on %s\n",
				path, h.AppName, h.PID, h.Hostname)
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "cannot lock %s\n", path)
		}
	}

	held := mgr.Held()
	if len(held) == 0 {
		return fmt.Errorf("no locks acquired")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "holding %d lock(s); press Ctrl-C to release\n", len(held))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	mgr.ReleaseAll()
	fmt.Fprintln(cmd.OutOrStdout(), "released")

	if failed {
		return fmt.Errorf("some locks could not be acquired")
	}
	return nil
}
