package commands

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a JCE Consulta server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, serverAlias, false)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CEDULA_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CEDULA_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

// NewAdminLoginCmd creates the admin-login command. It uses the same
// endpoint as login; accounts without the admin role are rejected and the
// session is fully rolled back.
func NewAdminLoginCmd() *cobra.Command {
	var email, password, serverAlias string

	cmd := &cobra.Command{
		Use:   "admin-login",
		Short: "Authenticate with admin privileges",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(email, password, serverAlias, true)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set CEDULA_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set CEDULA_PASSWORD, will prompt if not provided)")
	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runLogin(email, password, serverAlias string, admin bool) error {
	// Environment variables are useful for CI/CD
	if email == "" {
		email = os.Getenv("CEDULA_EMAIL")
	}
	if password == "" {
		password = os.Getenv("CEDULA_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or CEDULA_EMAIL env var)")
	}
	if err := validate.Email(email); err != nil {
		return err
	}

	server, err := getSelectedServer(serverAlias)
	if err != nil {
		return err
	}

	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	_, sess, err := newSession(server)
	if err != nil {
		return err
	}

	fmt.Printf("Logging in to %s (%s)...\n", server.Alias, server.BaseURL)

	login := sess.Login
	if admin {
		login = sess.AdminLogin
	}

	payload, err := login(email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login successful!")
	if payload.User != nil {
		fmt.Printf("  User: %s (%s)\n", payload.User.Name, payload.User.Email)
		fmt.Printf("  Tokens: %d\n", payload.User.Tokens)
		if payload.User.Role == "ADMIN" {
			fmt.Println("  Role: Admin")
		}
	}

	return nil
}

// promptPassword reads a password without echo when stdin is a terminal
func promptPassword(label string) (string, error) {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("password is required in non-interactive mode (use --password flag or CEDULA_PASSWORD env var)")
	}

	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()
	return string(bytePassword), nil
}
