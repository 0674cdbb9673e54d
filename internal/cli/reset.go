package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgreer/chrono/internal/keychain"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local state",
	Long: `Reset local state. Server data is never touched.

Examples:
  chrono reset cache          # Drop all locally cached entries
  chrono reset credentials    # Forget the stored API token and cache key`,
}

var resetCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Drop all locally cached entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will drop all locally cached entries. The server copy is unaffected. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.EntryCache.Purge(context.Background()); err != nil {
			return fmt.Errorf("failed to purge cache: %w", err)
		}

		fmt.Println("Local entry cache cleared.")
		return nil
	},
}

var resetCredentialsCmd = &cobra.Command{
	Use:   "credentials",
	Short: "Forget the stored API token and cache key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will remove the stored API token and cache encryption key. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.Keychain.Delete(keychain.TokenName); err != nil {
			return fmt.Errorf("failed to delete API token: %w", err)
		}
		if err := appInstance.Keychain.Delete(keychain.CacheKeyName); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}

		fmt.Println("Credentials removed. The existing cache file is now unreadable;")
		fmt.Println("delete it or run 'chrono reset cache' before logging in again.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetCacheCmd)
	resetCmd.AddCommand(resetCredentialsCmd)
}
