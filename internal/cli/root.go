package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/commands"
)

var version = "dev" // Will be set during build

var rootCmd = &cobra.Command{
	Use:   "cedula",
	Short: "JCE Consulta - Dominican cédula lookups from the command line",
	Long: `JCE Consulta CLI - Look up Dominican Republic cédula records.

Queries run against the JCE Consulta API and cost one billing token each.
Register an account, buy tokens, and query away.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cedula version %s\n", version)
		},
	})

	// Add all subcommands
	rootCmd.AddCommand(commands.NewInitCmd())
	rootCmd.AddCommand(commands.NewSelectServerCmd())
	rootCmd.AddCommand(commands.NewRegisterCmd())
	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewAdminLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewRefreshCmd())
	rootCmd.AddCommand(commands.NewChangePasswordCmd())
	rootCmd.AddCommand(commands.NewQueryCmd())
	rootCmd.AddCommand(commands.NewResultCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())
	rootCmd.AddCommand(commands.NewRecentCmd())
	rootCmd.AddCommand(commands.NewSearchCmd())
	rootCmd.AddCommand(commands.NewStatsCmd())
	rootCmd.AddCommand(commands.NewBalanceCmd())
	rootCmd.AddCommand(commands.NewPackagesCmd())
	rootCmd.AddCommand(commands.NewBuyCmd())
	rootCmd.AddCommand(commands.NewVerifyCmd())
	rootCmd.AddCommand(commands.NewPaymentsCmd())
	rootCmd.AddCommand(commands.NewAdminCmd())
}

// Execute runs the root command
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
