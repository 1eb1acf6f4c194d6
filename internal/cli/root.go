// Package cli provides the command-line interface for agentdeck.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for agentdeck.
// It receives the version for display.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "agentdeck",
		Short: "Task board that drives a fleet of remote AI coding agents",
		Long: `agentdeck is a task board whose in_progress column is backed by real
worker processes managed by an external agent service. Moving a card
spawns, pauses, or closes its worker; idle workers are detected and
handed to a reviewer automatically.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(),
		newWatchCommand(),
	)

	return root
}
