package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgreer/chrono/internal/domain"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Manage the active timer",
	Long:  `Start, stop, or check the status of the active timer.`,
}

var timerStartCmd = &cobra.Command{
	Use:   "start [task_id] [description]",
	Short: "Start a new timer",
	Long:  `Start a new timer for a task with an optional description.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		taskID := args[0]
		description := ""
		if len(args) > 1 {
			description = args[1]
		}

		billable, _ := cmd.Flags().GetBool("billable")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		entry, err := appInstance.Timer.Start(ctx, taskID, description, billable, tags)
		if err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return fmt.Errorf("a timer is already running - stop it first")
			}
			return fmt.Errorf("failed to start timer: %w", err)
		}

		fmt.Printf("✓ Timer started for task %s\n", entry.TaskID)
		if description != "" {
			fmt.Printf("  Description: %s\n", description)
		}

		return nil
	},
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		entry, err := appInstance.Timer.Stop(ctx, false)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidState) {
				return fmt.Errorf("no timer is running")
			}
			return fmt.Errorf("failed to stop timer: %w", err)
		}

		fmt.Printf("✓ Timer stopped\n")
		fmt.Printf("  Duration: %s\n", formatDuration(entry.Duration()))
		if amount := entry.Amount(); amount > 0 {
			fmt.Printf("  Amount: %s\n", formatAmount(amount))
		}

		return nil
	},
}

var timerStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the status of the active timer",
	RunE: func(cmd *cobra.Command, args []string) error {
		state := appInstance.Timer.State()

		if !state.Running {
			fmt.Println("No active timer")
			return nil
		}

		entry := state.ActiveEntry
		fmt.Printf("Timer Status: %s\n", state.Phase())
		fmt.Printf("  Task: %s\n", entry.TaskID)
		if entry.Description != "" {
			fmt.Printf("  Description: %s\n", entry.Description)
		}
		fmt.Printf("  Started: %s\n", entry.StartTime.Local().Format("2006-01-02 15:04:05"))
		fmt.Printf("  Elapsed: %s\n", formatDuration(state.Elapsed()))
		if !state.LastSyncAt.IsZero() {
			fmt.Printf("  Last sync: %s ago\n", formatDuration(time.Since(state.LastSyncAt).Round(time.Second)))
		}

		return nil
	},
}

var timerSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the local timer with the server now",
	RunE: func(cmd *cobra.Command, args []string) error {
		state, err := appInstance.Timer.SyncNow(context.Background())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		if state.Running {
			fmt.Printf("✓ Synced: timer running on task %s, elapsed %s\n",
				state.ActiveEntry.TaskID, formatDuration(state.Elapsed()))
		} else {
			fmt.Println("✓ Synced: no active timer")
		}
		return nil
	},
}

func init() {
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerStopCmd)
	timerCmd.AddCommand(timerStatusCmd)
	timerCmd.AddCommand(timerSyncCmd)

	timerStartCmd.Flags().Bool("billable", true, "Mark the entry billable")
	timerStartCmd.Flags().StringSlice("tag", nil, "Tags for the entry (repeatable)")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	} else if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
