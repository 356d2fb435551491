package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecentCmd creates the recent command
func NewRecentCmd() *cobra.Command {
	var serverAlias string
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show your most recent queries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecent(serverAlias, limit)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&limit, "limit", 5, "Number of queries to show (1-20)")

	return cmd
}

func runRecent(serverAlias string, limit int) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	queries, err := api.RecentQueries(limit)
	if err != nil {
		return err
	}

	if len(queries) == 0 {
		fmt.Println("No queries found.")
		return nil
	}

	printQueryTable(queries)
	return nil
}
