package cli

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mgreer/chrono/internal/keychain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a new API token",
	Long:  `Replace the stored API token for the practice-management server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print("Enter your API token: ")
		token, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		if len(token) == 0 {
			return fmt.Errorf("token cannot be empty")
		}

		if err := appInstance.Keychain.Set(keychain.TokenName, string(token)); err != nil {
			return fmt.Errorf("failed to store token: %w", err)
		}

		fmt.Println("✓ API token stored")
		fmt.Println("  The new token takes effect on the next run.")
		return nil
	},
}
