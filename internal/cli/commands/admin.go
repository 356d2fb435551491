package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
)

// NewAdminCmd creates the admin command group. Every subcommand hits an
// admin-only endpoint; the server rejects non-admin tokens with 403.
func NewAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands (requires an admin account)",
	}

	cmd.AddCommand(newAdminDashboardCmd())
	cmd.AddCommand(newAdminHealthCmd())
	cmd.AddCommand(newAdminCleanupCmd())
	cmd.AddCommand(newAdminLogsCmd())
	cmd.AddCommand(newAdminTokenPriceCmd())
	cmd.AddCommand(newAdminSettingsCmd())
	cmd.AddCommand(newAdminUsersCmd())
	cmd.AddCommand(newAdminPaymentsCmd())

	return cmd
}

func newAdminDashboardCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show system-wide statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			stats, err := api.Dashboard()
			if err != nil {
				return err
			}

			fmt.Println("Users")
			fmt.Printf("  Total:     %d\n", stats.UserStats.TotalUsers)
			fmt.Printf("  Active:    %d\n", stats.UserStats.ActiveUsers)
			fmt.Printf("  Inactive:  %d\n", stats.UserStats.InactiveUsers)
			fmt.Printf("  Tokens:    %d\n", stats.UserStats.TotalTokensDistributed)
			fmt.Println("\nQueries")
			fmt.Printf("  Total:     %d\n", stats.QueryStats.TotalQueries)
			fmt.Printf("  Completed: %d\n", stats.QueryStats.CompletedQueries)
			fmt.Printf("  Failed:    %d\n", stats.QueryStats.FailedQueries)
			fmt.Println("\nPayments")
			fmt.Printf("  Total:     %d\n", stats.PaymentStats.TotalPayments)
			fmt.Printf("  Completed: %d\n", stats.PaymentStats.CompletedPayments)
			fmt.Printf("  Pending:   %d\n", stats.PaymentStats.PendingPayments)
			fmt.Printf("  Revenue:   $%.2f\n", stats.PaymentStats.TotalRevenue)
			fmt.Printf("\nToken price: $%.2f\n", stats.TokenPrice)

			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminHealthCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Run the server-side health checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			health, err := api.HealthCheck()
			if err != nil {
				return err
			}

			fmt.Printf("Status: %s (%s)\n\n", health.Status, health.Timestamp)
			for name, result := range health.Checks {
				fmt.Printf("  %s: %s\n", name, result)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminCleanupCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Expire stale payment orders and abandoned queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			results, err := api.SystemCleanup()
			if err != nil {
				return err
			}

			fmt.Println("✓ Cleanup complete")
			fmt.Printf("  Expired payments: %d\n", results.ExpiredPayments)
			fmt.Printf("  Stale queries:    %d\n", results.StaleQueries)

			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminLogsCmd() *cobra.Command {
	var serverAlias, level string
	var lines int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Tail the server log",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			entries, err := api.SystemLogs(lines, level)
			if err != nil {
				return err
			}

			for _, e := range entries {
				fmt.Printf("%s [%s] %s\n", e.Timestamp, e.Level, e.Message)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&lines, "lines", 50, "Number of log lines to fetch")
	cmd.Flags().StringVar(&level, "level", "info", "Minimum log level")

	return cmd
}

func newAdminTokenPriceCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "token-price [new-price]",
		Short: "Show or update the per-token price",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				price, err := api.TokenPrice()
				if err != nil {
					return err
				}
				fmt.Printf("Token price: $%.2f\n", price)
				return nil
			}

			newPrice, err := strconv.ParseFloat(args[0], 64)
			if err != nil || newPrice <= 0 {
				return fmt.Errorf("invalid price: %s", args[0])
			}

			price, err := api.UpdateTokenPrice(newPrice)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Token price updated to $%.2f\n", price)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminSettingsCmd() *cobra.Command {
	var serverAlias string
	var siteName, siteDescription, cleanupSchedule string
	var queriesEnabled, paymentsEnabled bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or update the application settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			settings, err := api.PublicSettings()
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("site-name") &&
				!cmd.Flags().Changed("site-description") &&
				!cmd.Flags().Changed("cleanup-schedule") &&
				!cmd.Flags().Changed("queries") &&
				!cmd.Flags().Changed("payments") {
				printSettings(settings)
				return nil
			}

			if cmd.Flags().Changed("site-name") {
				settings.SiteName = siteName
			}
			if cmd.Flags().Changed("site-description") {
				settings.SiteDescription = siteDescription
			}
			if cmd.Flags().Changed("cleanup-schedule") {
				settings.CleanupSchedule = cleanupSchedule
			}
			if cmd.Flags().Changed("queries") {
				settings.QueriesEnabled = queriesEnabled
			}
			if cmd.Flags().Changed("payments") {
				settings.PaymentsEnabled = paymentsEnabled
			}

			updated, err := api.UpdateSettings(*settings)
			if err != nil {
				return err
			}

			fmt.Println("✓ Settings updated")
			printSettings(updated)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().StringVar(&siteName, "site-name", "", "Site name")
	cmd.Flags().StringVar(&siteDescription, "site-description", "", "Site description")
	cmd.Flags().StringVar(&cleanupSchedule, "cleanup-schedule", "", "Payment cleanup cron schedule")
	cmd.Flags().BoolVar(&queriesEnabled, "queries", true, "Enable cédula queries")
	cmd.Flags().BoolVar(&paymentsEnabled, "payments", true, "Enable payments")

	return cmd
}

func printSettings(s *client.AppSettings) {
	fmt.Printf("Site name:         %s\n", s.SiteName)
	fmt.Printf("Description:       %s\n", s.SiteDescription)
	fmt.Printf("Token price:       $%.2f\n", s.TokenPrice)
	fmt.Printf("Queries enabled:   %t\n", s.QueriesEnabled)
	fmt.Printf("Payments enabled:  %t\n", s.PaymentsEnabled)
	if s.CleanupSchedule != "" {
		fmt.Printf("Cleanup schedule:  %s\n", s.CleanupSchedule)
	}
}

func newAdminUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newAdminUsersListCmd())
	cmd.AddCommand(newAdminUsersSearchCmd())
	cmd.AddCommand(newAdminUsersShowCmd())
	cmd.AddCommand(newAdminUsersToggleCmd())
	cmd.AddCommand(newAdminUsersTokensCmd())
	cmd.AddCommand(newAdminUsersDeleteCmd())
	cmd.AddCommand(newAdminUsersStatsCmd())

	return cmd
}

func newAdminUsersListCmd() *cobra.Command {
	var serverAlias string
	var page, size int

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			result, err := api.ListUsers(page, size, "createdAt", "desc")
			if err != nil {
				return err
			}

			if len(result.Content) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			printUserTable(result.Content)
			fmt.Printf("\nPage %d of %d (%d users total)\n", result.Number+1, result.TotalPages, result.TotalElements)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")

	return cmd
}

func newAdminUsersSearchCmd() *cobra.Command {
	var serverAlias string
	var page, size int

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search users by name or email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			result, err := api.SearchUsers(args[0], page, size)
			if err != nil {
				return err
			}

			if len(result.Content) == 0 {
				fmt.Println("No matching users found.")
				return nil
			}

			printUserTable(result.Content)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	cmd.Flags().IntVar(&size, "size", 20, "Page size")

	return cmd
}

func newAdminUsersShowCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show a single user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			user, err := api.GetUser(args[0])
			if err != nil {
				return err
			}

			printUser(user)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminUsersToggleCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "toggle <user-id>",
		Short: "Activate or deactivate a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			user, err := api.ToggleUserStatus(args[0])
			if err != nil {
				return err
			}

			state := "deactivated"
			if user.IsActive {
				state = "activated"
			}
			fmt.Printf("✓ User %s %s\n", user.Email, state)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminUsersTokensCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "tokens <user-id> <tokens>",
		Short: "Set a user's token balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := strconv.Atoi(args[1])
			if err != nil || tokens < 0 {
				return fmt.Errorf("invalid token amount: %s", args[1])
			}

			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			user, err := api.SetUserTokens(args[0], tokens)
			if err != nil {
				return err
			}

			fmt.Printf("✓ %s now has %d token(s)\n", user.Email, user.Tokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminUsersDeleteCmd() *cobra.Command {
	var serverAlias string
	var force bool

	cmd := &cobra.Command{
		Use:   "rm <user-id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				fmt.Printf("Delete user %s? This cannot be undone. [y/N]: ", args[0])
				var answer string
				fmt.Scanln(&answer)
				if answer != "y" && answer != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			if err := api.DeleteUser(args[0]); err != nil {
				return err
			}

			fmt.Println("✓ User deleted")
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")

	return cmd
}

func newAdminUsersStatsCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate user statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			stats, err := api.GetUserStats()
			if err != nil {
				return err
			}

			fmt.Printf("Total users:         %d\n", stats.TotalUsers)
			fmt.Printf("Active users:        %d\n", stats.ActiveUsers)
			fmt.Printf("Inactive users:      %d\n", stats.InactiveUsers)
			fmt.Printf("Tokens distributed:  %d\n", stats.TotalTokensDistributed)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminPaymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Manage payment orders",
	}

	cmd.AddCommand(newAdminPaymentsPendingCmd())
	cmd.AddCommand(newAdminPaymentsExpiredCmd())
	cmd.AddCommand(newAdminPaymentsConfirmCmd())
	cmd.AddCommand(newAdminPaymentsFailCmd())
	cmd.AddCommand(newAdminPaymentsExpireCmd())

	return cmd
}

func newAdminPaymentsPendingCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List orders awaiting confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			orders, err := api.PendingPayments()
			if err != nil {
				return err
			}

			if len(orders) == 0 {
				fmt.Println("No pending payments.")
				return nil
			}

			printOrderTable(orders)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminPaymentsExpiredCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "expired",
		Short: "List orders that timed out unpaid",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			orders, err := api.ExpiredPayments()
			if err != nil {
				return err
			}

			if len(orders) == 0 {
				fmt.Println("No expired payments.")
				return nil
			}

			printOrderTable(orders)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminPaymentsConfirmCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "confirm <order-id>",
		Short: "Mark an order as paid and credit its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			order, err := api.ConfirmPayment(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("✓ Order %s confirmed (%d tokens credited)\n", order.ID, order.Tokens)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func newAdminPaymentsFailCmd() *cobra.Command {
	var serverAlias, reason string

	cmd := &cobra.Command{
		Use:   "fail <order-id>",
		Short: "Mark an order as failed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			order, err := api.FailPayment(args[0], reason)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Order %s marked as failed\n", order.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().StringVar(&reason, "reason", "manually failed", "Failure reason")

	return cmd
}

func newAdminPaymentsExpireCmd() *cobra.Command {
	var serverAlias string
	var hoursOld int

	cmd := &cobra.Command{
		Use:   "expire",
		Short: "Expire pending orders older than a cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, _, err := connect(serverAlias)
			if err != nil {
				return err
			}

			count, err := api.CleanupExpiredPayments(hoursOld)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Expired %d order(s)\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&hoursOld, "hours", 24, "Expire orders older than this many hours")

	return cmd
}

func printUserTable(users []client.UserProfile) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tTOKENS\tACTIVE")
	fmt.Fprintln(w, "──\t────\t─────\t────\t──────\t──────")

	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%t\n",
			u.ID,
			u.Name,
			u.Email,
			u.Role,
			u.Tokens,
			u.IsActive,
		)
	}

	w.Flush()
}

func printUser(u *client.UserProfile) {
	fmt.Printf("ID:         %s\n", u.ID)
	fmt.Printf("Name:       %s\n", u.Name)
	fmt.Printf("Email:      %s\n", u.Email)
	fmt.Printf("Role:       %s\n", u.Role)
	fmt.Printf("Tokens:     %d\n", u.Tokens)
	fmt.Printf("Active:     %t\n", u.IsActive)
	fmt.Printf("Created:    %s\n", u.CreatedAt)
}
