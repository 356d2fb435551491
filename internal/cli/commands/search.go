package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "search <cedula>",
		Short: "Search your past queries by full or partial cédula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(args[0], serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runSearch(cedula, serverAlias string) error {
	if err := validate.CedulaForSearch(cedula); err != nil {
		return err
	}

	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	queries, err := api.SearchQueries(validate.CleanCedula(cedula))
	if err != nil {
		return err
	}

	if len(queries) == 0 {
		fmt.Println("No matching queries found.")
		return nil
	}

	printQueryTable(queries)
	return nil
}
