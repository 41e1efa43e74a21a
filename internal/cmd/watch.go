package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/tui"
	"github.com/sidelock/sidelock/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a directory tree and show locks live",
	Long: `Open a terminal view of every sidecar lock under a directory tree
(default: the current directory). The view rescans whenever a sidecar is
created, written, or removed, and on a slow timer as a fallback.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	bus := event.NewBus()
	changes := make(chan event.WatchChangedEvent, 16)
	bus.Subscribe("watch.changed", func(e event.Event) {
		// Drop events when the view is mid-rescan; the next rescan picks the
		// change up anyway.
		select {
		case changes <- e.(event.WatchChangedEvent):
		default:
		}
	})

	w, err := watch.New(bus, watch.WithSuffix(cfg.Lock.Suffix), watch.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(root); err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}

	p := tea.NewProgram(tui.NewModel(root, scanner, changes), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
