package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var labelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show who holds the lock on a file",
	Long: `Read the sidecar lock file next to the given file and print the
recorded holder identity. This is a read-only probe: it works for locks
held by any process and never modifies lock state.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	mgr := newManager(cfg, logger)

	h, ok := mgr.Inspect(args[0])
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is not locked\n", args[0])
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("file:"), args[0])
	fmt.Fprintf(out, "%s %d\n", labelStyle.Render("pid:"), h.PID)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("host:"), h.Hostname)
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("app:"), h.AppName)
	fmt.Fprintf(out, "%s %s ago\n", labelStyle.Render("acquired:"), formatDuration(h.Age()))
	return nil
}
