package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/session"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var serverAlias string
	var remote bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(serverAlias, remote)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().BoolVar(&remote, "remote", false, "Fetch the profile from the server instead of the local cache")

	return cmd
}

func runWhoami(serverAlias string, remote bool) error {
	api, sess, err := connect(serverAlias)
	if err != nil {
		return err
	}

	if sess.Restore() != session.StateAuthenticated {
		return fmt.Errorf("not authenticated. Please run 'cedula login' first")
	}

	user := sess.CurrentUser()
	if remote {
		payload, err := api.Me()
		if err != nil {
			return err
		}
		user = payload.User
	}

	if user == nil {
		return fmt.Errorf("not authenticated. Please run 'cedula login' first")
	}

	fmt.Printf("User:    %s\n", user.Name)
	fmt.Printf("Email:   %s\n", user.Email)
	fmt.Printf("Role:    %s\n", user.Role)
	fmt.Printf("Tokens:  %d\n", user.Tokens)
	fmt.Printf("Active:  %t\n", user.IsActive)
	fmt.Printf("Member since: %s\n", user.CreatedAt)

	return nil
}
