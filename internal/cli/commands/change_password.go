package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewChangePasswordCmd creates the change-password command
func NewChangePasswordCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the current account's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangePassword(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runChangePassword(serverAlias string) error {
	_, sess, err := connect(serverAlias)
	if err != nil {
		return err
	}

	current, err := promptPassword("Current password: ")
	if err != nil {
		return err
	}
	newPassword, err := promptPassword("New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm new password: ")
	if err != nil {
		return err
	}

	message, err := sess.ChangePassword(current, newPassword, confirm)
	if err != nil {
		return fmt.Errorf("password change failed: %w", err)
	}

	if message == "" {
		message = "Password changed"
	}
	fmt.Printf("✓ %s\n", message)

	return nil
}
