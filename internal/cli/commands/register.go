package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var name, email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(name, email, password, serverAlias)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Full name")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CEDULA_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runRegister(name, email, password, serverAlias string) error {
	if email == "" {
		email = os.Getenv("CEDULA_EMAIL")
	}
	if name == "" {
		return fmt.Errorf("name is required (use --name flag)")
	}
	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CEDULA_EMAIL env var)")
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	confirm := password
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err = promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
	}

	_, sess, err := newSession(server)
	if err != nil {
		return err
	}

	payload, err := sess.Register(client.RegisterInput{
		Name:            name,
		Email:           email,
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Println("✓ Account created!")
	if payload.User != nil {
		fmt.Printf("  User: %s (%s)\n", payload.User.Name, payload.User.Email)
		fmt.Printf("  Tokens: %d\n", payload.User.Tokens)
	}

	return nil
}
