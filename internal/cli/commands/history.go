package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd() *cobra.Command {
	var serverAlias string
	var page, size int
	var sortBy, sortDir string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show your paginated query history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(serverAlias, page, size, sortBy, sortDir)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")
	cmd.Flags().StringVar(&sortBy, "sort", "queryDate", "Sort field")
	cmd.Flags().StringVar(&sortDir, "dir", "desc", "Sort direction (asc or desc)")

	return cmd
}

func runHistory(serverAlias string, page, size int, sortBy, sortDir string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	result, err := api.QueryHistory(page, size, sortBy, sortDir)
	if err != nil {
		return err
	}

	if len(result.Content) == 0 {
		fmt.Println("No queries found.")
		fmt.Println("\nLook up a cédula with: cedula query <cedula>")
		return nil
	}

	printQueryTable(result.Content)
	fmt.Printf("\nPage %d of %d (%d queries total)\n", result.Number+1, result.TotalPages, result.TotalElements)

	return nil
}

func printQueryTable(queries []client.CedulaQuery) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCEDULA\tSTATUS\tDATE\tCOST")
	fmt.Fprintln(w, "──\t──────\t──────\t────\t────")

	for _, q := range queries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			q.ID,
			validate.FormatCedula(q.Cedula),
			q.Status,
			q.QueryDate,
			q.Cost,
		)
	}

	w.Flush()
}
