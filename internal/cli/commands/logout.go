package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogout(serverAlias string) error {
	_, sess, err := connect(serverAlias)
	if err != nil {
		return err
	}

	// Local cleanup is unconditional; a failed server notification is
	// logged and ignored inside Logout
	sess.Logout()

	fmt.Println("✓ Logged out")
	return nil
}
