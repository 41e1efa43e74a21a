package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sweepDryRun bool

var sweepCmd = &cobra.Command{
	Use:   "sweep [dir]",
	Short: "Remove stale and corrupt sidecar locks",
	Long: `Walk a directory tree (default: the current directory) and delete every
sidecar whose holder is gone: same-host locks with a dead PID, foreign
locks older than the configured TTL, and corrupt lock files. Locks with
a live holder are never touched.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().BoolVarP(&sweepDryRun, "dry-run", "n", false, "report what would be removed without removing it")
	rootCmd.AddCommand(sweepCmd)
}

func runSweep(cmd *cobra.Command, args []string) error {
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

	scanner, err := newScanner(cfg, logger, "")
	if err != nil {
		return err
	}

	if sweepDryRun {
		found, err := scanner.Scan(root)
		if err != nil {
			return err
		}
		n := 0
		for _, f := range found {
			if !f.Stale {
				continue
			}
			n++
			fmt.Fprintf(cmd.OutOrStdout(), "would remove %s\n", f.SidecarPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d stale lock(s)\n", n)
		return nil
	}

	removed, err := scanner.Sweep(root)
	if err != nil {
		return err
	}
	for _, f := range removed {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", f.SidecarPath)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %d stale lock(s)\n", len(removed))
	return nil
}
