package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRefreshCmd creates the refresh command
func NewRefreshCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored refresh token for a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefresh(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runRefresh(serverAlias string) error {
	_, sess, err := connect(serverAlias)
	if err != nil {
		return err
	}

	payload, err := sess.Refresh()
	if err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	fmt.Println("✓ Session refreshed")
	if payload.User != nil {
		fmt.Printf("  User: %s (%s)\n", payload.User.Name, payload.User.Email)
	}

	return nil
}
