package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/snishimura/agentdeck/internal/tui/watch"
)

// launchWatchTUIFunc is a function variable for launching the watch TUI,
// allowing it to be mocked in tests.
var launchWatchTUIFunc = launchWatchTUI

// newWatchCommand creates the watch command.
func newWatchCommand() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch the board live in the terminal",
		Long: `Connects to a running board server's push channel and renders the
board columns and worker fleet, updating as snapshots arrive.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchWatchTUIFunc(url)
		},
	}

	cmd.Flags().StringVar(&url, "url", "ws://127.0.0.1:8844/ws", "Push channel URL of the board server")
	return cmd
}

// launchWatchTUI runs the watch TUI until the user quits.
func launchWatchTUI(url string) error {
	p := tea.NewProgram(watch.New(url), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
