package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the timer and the local entry cache with the server",
	Long: `Reconcile the local timer with the server and refresh the local
entry cache for the last 90 days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		state, err := appInstance.Timer.SyncNow(ctx)
		if err != nil {
			return fmt.Errorf("timer sync failed: %w", err)
		}
		if state.Running {
			fmt.Printf("✓ Timer: running on task %s\n", state.ActiveEntry.TaskID)
		} else {
			fmt.Println("✓ Timer: idle")
		}

		now := time.Now()
		from := now.AddDate(0, 0, -90)
		entries, stale, err := appInstance.EntryService.Refresh(ctx, &from, &now)
		if err != nil {
			return fmt.Errorf("entry refresh failed: %w", err)
		}
		if stale {
			return fmt.Errorf("server unreachable: cache left as-is")
		}
		fmt.Printf("✓ Cache: %d entries refreshed\n", len(entries))
		return nil
	},
}
