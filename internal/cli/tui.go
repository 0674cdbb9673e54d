package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mgreer/chrono/internal/notify"
	"github.com/mgreer/chrono/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the terminal UI",
	Long:  `Launch the interactive terminal user interface for chrono.`,
	RunE:  launchTUI,
}

func launchTUI(cmd *cobra.Command, args []string) error {
	model := tui.New(appInstance)
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Route notifications (e.g. inactivity auto-stop) into the TUI
	// while it is on screen, restoring the log notifier afterwards.
	prev := appInstance.Notifier.SetTarget(notify.Func(func(title, body string) {
		p.Send(tui.NotificationMsg{Title: title, Body: body})
	}))
	defer appInstance.Notifier.SetTarget(prev)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
