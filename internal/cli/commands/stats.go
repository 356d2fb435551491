package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatsCmd creates the stats command
func NewStatsCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show your query statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runStats(serverAlias string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	stats, err := api.GetQueryStats()
	if err != nil {
		return err
	}

	fmt.Printf("Total queries:      %d\n", stats.TotalQueries)
	fmt.Printf("Completed:          %d\n", stats.CompletedQueries)
	fmt.Printf("Pending:            %d\n", stats.PendingQueries)
	fmt.Printf("Failed:             %d\n", stats.FailedQueries)
	fmt.Printf("Tokens spent:       %.0f\n", stats.TotalCost)

	return nil
}
