package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgreer/chrono/internal/billing"
)

var billingCmd = &cobra.Command{
	Use:   "billing",
	Short: "Preview billing for tracked time",
	Long:  `Build candidate invoice line items from finalized time entries.`,
}

var billingPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview invoice line items",
	Long: `Preview the invoice line items that would be generated from the
billable entries in a period. Nothing is sent to the server.`,
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

		groupByStr, _ := cmd.Flags().GetString("group-by")
		if groupByStr == "" {
			groupByStr = appInstance.Config.Billing.DefaultGroupBy
		}
		groupBy := billing.GroupBy(groupByStr)
		switch groupBy {
		case billing.GroupByNone, billing.GroupByProject, billing.GroupByTask:
		default:
			return fmt.Errorf("invalid --group-by %q: expected none, project, or task", groupByStr)
		}

		entries, stale, err := appInstance.EntryService.Refresh(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to fetch entries: %w", err)
		}
		if stale {
			fmt.Println("(server unreachable - previewing from cached entries)")
		}

		items := billing.BuildLineItems(entries, groupBy)
		if len(items) == 0 {
			fmt.Println("No billable time in the selected period")
			return nil
		}

		fmt.Printf("%-40s %10s %10s %12s\n", "Description", "Hours", "Rate", "Amount")
		fmt.Println("----------------------------------------------------------------------------")

		total := 0.0
		for _, item := range items {
			fmt.Printf("%-40s %10.2f %10.2f %12s\n",
				truncate(item.Description, 40),
				item.Quantity,
				item.Rate,
				formatAmount(item.Amount),
			)
			total += item.Amount
		}

		fmt.Println("----------------------------------------------------------------------------")
		fmt.Printf("%d line items, total %s\n", len(items), formatAmount(total))

		if taxRate := appInstance.Config.Billing.DefaultTaxRate; taxRate > 0 {
			tax := total * taxRate
			fmt.Printf("Tax (%.2f%%): %s\n", taxRate*100, formatAmount(tax))
			fmt.Printf("Total with tax: %s\n", formatAmount(total+tax))
		}

		return nil
	},
}

func init() {
	billingCmd.AddCommand(billingPreviewCmd)

	billingPreviewCmd.Flags().String("start", "", "Period start (YYYY-MM-DD)")
	billingPreviewCmd.Flags().String("end", "", "Period end (YYYY-MM-DD)")
	billingPreviewCmd.Flags().String("group-by", "", "Group line items by: none, project, or task (defaults to config)")
}
