// Package tui renders a live view of sidecar locks under a directory tree.
// It rescans on filesystem activity reported by the watcher and on a slow
// ticker, so the table stays current without hammering the disk.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sidelock/sidelock/internal/event"
	"github.com/sidelock/sidelock/internal/scan"
	"github.com/sidelock/sidelock/internal/util"
)

const rescanInterval = 5 * time.Second

// Model is the bubbletea model for the watch view.
type Model struct {
	root    string
	scanner *scan.Scanner
	changes <-chan event.WatchChangedEvent

	spinner  spinner.Model
	rows     []scan.Found
	scanErr  error
	scanned  bool
	width    int
	quitting bool
}

// scanDoneMsg carries the result of a background rescan.
type scanDoneMsg struct {
	rows []scan.Found
	err  error
}

// changeMsg signals sidecar activity from the watcher.
type changeMsg struct{}

// tickMsg drives the periodic rescan.
type tickMsg time.Time

// NewModel creates the watch view for root, scanning with scanner and
// reacting to watcher events from changes.
func NewModel(root string, scanner *scan.Scanner, changes <-chan event.WatchChangedEvent) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		root:    root,
		scanner: scanner,
		changes: changes,
		spinner: sp,
		width:   80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.rescan(), m.waitChange(), m.tick())
}

func (m Model) rescan() tea.Cmd {
	scanner, root := m.scanner, m.root
	return func() tea.Msg {
		rows, err := scanner.Scan(root)
		return scanDoneMsg{rows: rows, err: err}
	}
}

func (m Model) waitChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changeMsg{}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(rescanInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			return m, m.rescan()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case scanDoneMsg:
		m.rows = msg.rows
		m.scanErr = msg.err
		m.scanned = true

	case changeMsg:
		return m, tea.Batch(m.rescan(), m.waitChange())

	case tickMsg:
		return m, tea.Batch(m.rescan(), m.tick())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b []byte
	b = append(b, titleStyle.Render("sidelock watch "+m.root)...)
	b = append(b, '\n')

	switch {
	case m.scanErr != nil:
		b = append(b, errorStyle.Render("scan failed: "+m.scanErr.Error())...)
		b = append(b, '\n')
	case !m.scanned:
		b = append(b, m.spinner.View()...)
		b = append(b, " scanning..."...)
		b = append(b, '\n')
	case len(m.rows) == 0:
		b = append(b, emptyStyle.Render("no locks held under "+m.root)...)
		b = append(b, '\n')
	default:
		b = append(b, m.renderTable()...)
	}

	b = append(b, helpStyle.Render("r: rescan  •  q: quit")...)
	b = append(b, '\n')
	return string(b)
}

func (m Model) renderTable() string {
	pathWidth := m.width - 46
	if pathWidth < 20 {
		pathWidth = 20
	}

	out := headerStyle.Render(fmt.Sprintf("%-*s  %7s  %-12s  %-10s  %8s", pathWidth, "FILE", "PID", "HOST", "APP", "AGE")) + "\n"
	for _, row := range m.rows {
		line := fmt.Sprintf("%-*s  %7d  %-12s  %-10s  %8s",
			pathWidth,
			util.TruncateANSI(row.TargetPath, pathWidth),
			row.Holder.PID,
			util.TruncateString(row.Holder.Hostname, 12),
			util.TruncateString(row.Holder.AppName, 10),
			formatAge(row.Holder.Age()),
		)

		switch {
		case row.Corrupt:
			out += corruptStyle.Render(util.TruncateANSI(row.SidecarPath, pathWidth)+"  (corrupt lock file)") + "\n"
		case row.Stale:
			out += staleStyle.Render(line+"  (stale)") + "\n"
		default:
			out += rowStyle.Render(line) + "\n"
		}
	}
	return out
}

func formatAge(d time.Duration) string {
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
