package cli

import (
	"github.com/mgreer/chrono/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "chrono",
	Short: "A terminal time tracking and billing client",
	Long: `Chrono tracks work time against your practice-management server,
keeps the local timer aligned with the server's authoritative view, and
previews invoice line items from finalized entries.

By default, running chrono without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch TUI
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	// Add all subcommands
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(billingCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(resetCmd)
}
