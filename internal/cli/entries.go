package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgreer/chrono/internal/api"
	"github.com/mgreer/chrono/internal/billing"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Manage time entries",
	Long:  `List, add, edit, and delete time entries.`,
}

var entriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var start, end *time.Time
		if cmd.Flags().Changed("start") {
			startStr, _ := cmd.Flags().GetString("start")
			t, err := parseDate(startStr)
			if err != nil {
				return fmt.Errorf("invalid start date: %w", err)
			}
			start = &t
		}
		if cmd.Flags().Changed("end") {
			endStr, _ := cmd.Flags().GetString("end")
			t, err := parseDate(endStr)
			if err != nil {
				return fmt.Errorf("invalid end date: %w", err)
			}
			end = &t
		}

		entries, stale, err := appInstance.EntryService.Refresh(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to list entries: %w", err)
		}
		if stale {
			fmt.Println("(server unreachable - showing cached entries)")
		}

		if len(entries) == 0 {
			fmt.Println("No entries found")
			return nil
		}

		// Print table header
		fmt.Printf("%-26s %-12s %-20s %-10s %-12s %-8s\n", "ID", "Task", "Date", "Duration", "Amount", "Status")
		fmt.Println("-------------------------------------------------------------------------------------------")

		var totalDuration time.Duration
		var totalAmount float64

		for _, entry := range entries {
			status := "Unbilled"
			if entry.IsInvoiced() {
				status = "Invoiced"
			}
			if entry.IsRunning() {
				status = "Running"
			}

			duration := entry.Duration()
			amount := entry.Amount()

			fmt.Printf("%-26s %-12s %-20s %-10s %-12s %-8s\n",
				truncate(entry.ID, 26),
				truncate(entry.TaskID, 12),
				entry.StartTime.Local().Format("2006-01-02 15:04"),
				formatDuration(duration),
				formatAmount(amount),
				status,
			)

			totalDuration += duration
			totalAmount += amount
		}

		fmt.Println("-------------------------------------------------------------------------------------------")
		fmt.Printf("Total: %d entries, %s, %s\n", len(entries), formatDuration(totalDuration), formatAmount(totalAmount))
		return nil
	},
}

var entriesAddCmd = &cobra.Command{
	Use:   "add [task_id] [start_time] [end_time] [description]",
	Short: "Add a time entry manually",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		startTime, err := parseDateTime(args[1])
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}

		endTime, err := parseDateTime(args[2])
		if err != nil {
			return fmt.Errorf("invalid end time: %w", err)
		}

		description := ""
		if len(args) > 3 {
			description = args[3]
		}

		billableFlag, _ := cmd.Flags().GetBool("billable")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		projectID, _ := cmd.Flags().GetString("project")

		entry, err := appInstance.EntryService.CreateManual(ctx, api.CreateEntryRequest{
			TaskID:      args[0],
			ProjectID:   projectID,
			Description: description,
			StartTime:   startTime,
			EndTime:     endTime,
			Billable:    billableFlag,
			Tags:        tags,
		})
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		fmt.Printf("✓ Time entry created (ID: %s)\n", entry.ID)
		fmt.Printf("  Duration: %s\n", formatDuration(entry.Duration()))
		if amount := entry.Amount(); amount > 0 {
			fmt.Printf("  Amount: %s\n", formatAmount(amount))
		}

		return nil
	},
}

var entriesEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Edit a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		req := api.UpdateEntryRequest{}
		if cmd.Flags().Changed("description") {
			description, _ := cmd.Flags().GetString("description")
			req.Description = &description
		}
		if cmd.Flags().Changed("tag") {
			tags, _ := cmd.Flags().GetStringSlice("tag")
			req.Tags = &tags
		}
		if cmd.Flags().Changed("rate") {
			rate, _ := cmd.Flags().GetFloat64("rate")
			req.BillableRate = &rate
		}
		if cmd.Flags().Changed("billable") {
			billableFlag, _ := cmd.Flags().GetBool("billable")
			req.Billable = &billableFlag
		}

		entry, err := appInstance.EntryService.Update(ctx, args[0], req)
		if err != nil {
			return fmt.Errorf("failed to update entry: %w", err)
		}

		fmt.Printf("✓ Entry updated (ID: %s)\n", entry.ID)
		return nil
	},
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if err := appInstance.EntryService.Delete(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete entry: %w", err)
		}

		fmt.Printf("✓ Entry deleted (ID: %s)\n", args[0])
		return nil
	},
}

func init() {
	entriesCmd.AddCommand(entriesListCmd)
	entriesCmd.AddCommand(entriesAddCmd)
	entriesCmd.AddCommand(entriesEditCmd)
	entriesCmd.AddCommand(entriesDeleteCmd)

	// List flags
	entriesListCmd.Flags().String("start", "", "Filter by start date (YYYY-MM-DD or 'today')")
	entriesListCmd.Flags().String("end", "", "Filter by end date (YYYY-MM-DD or 'today')")

	// Add flags
	entriesAddCmd.Flags().String("project", "", "Project ID for the entry")
	entriesAddCmd.Flags().Bool("billable", true, "Mark the entry billable")
	entriesAddCmd.Flags().StringSlice("tag", nil, "Tags for the entry (repeatable)")

	// Edit flags
	entriesEditCmd.Flags().String("description", "", "New description")
	entriesEditCmd.Flags().StringSlice("tag", nil, "Replace tags (repeatable)")
	entriesEditCmd.Flags().Float64("rate", 0, "New billable rate")
	entriesEditCmd.Flags().Bool("billable", true, "Set the billable flag")
}

// parseDate parses a date string in various formats
func parseDate(s string) (time.Time, error) {
	switch s {
	case "today":
		return time.Now().Truncate(24 * time.Hour), nil
	case "yesterday":
		return time.Now().Add(-24 * time.Hour).Truncate(24 * time.Hour), nil
	default:
		// Try YYYY-MM-DD format
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DD, 'today', or 'yesterday'")
		}
		return t, nil
	}
}

// parseDateTime parses a datetime in YYYY-MM-DDTHH:MM or YYYY-MM-DD HH:MM format
func parseDateTime(s string) (time.Time, error) {
	layouts := []string{
		"2006-01-02T15:04",
		"2006-01-02 15:04",
		time.RFC3339,
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected format: YYYY-MM-DDTHH:MM")
}

// truncate shortens a string to max characters with an ellipsis
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// formatAmount renders an amount in the configured currency
func formatAmount(amount float64) string {
	return billing.FormatCurrency(amount, appInstance.Config.Billing.Currency)
}
