package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
)

// NewPaymentsCmd creates the payments command
func NewPaymentsCmd() *cobra.Command {
	var serverAlias string
	var page, size int

	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Show your payment order history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPayments(serverAlias, page, size)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().IntVar(&page, "page", 0, "Page number (zero-based)")
	cmd.Flags().IntVar(&size, "size", 10, "Page size")

	return cmd
}

func runPayments(serverAlias string, page, size int) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	result, err := api.PaymentHistory(page, size)
	if err != nil {
		return err
	}

	if len(result.Content) == 0 {
		fmt.Println("No payment orders found.")
		fmt.Println("\nBuy tokens with: cedula buy <tokens>")
		return nil
	}

	printOrderTable(result.Content)
	fmt.Printf("\nPage %d of %d (%d orders total)\n", result.Number+1, result.TotalPages, result.TotalElements)

	return nil
}

func printOrderTable(orders []client.PaymentOrder) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTOKENS\tAMOUNT\tSTATUS\tCREATED AT")
	fmt.Fprintln(w, "──\t──────\t──────\t──────\t──────────")

	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%d\t$%.2f\t%s\t%s\n",
			o.ID,
			o.Tokens,
			o.Amount,
			o.Status,
			o.CreatedAt,
		)
	}

	w.Flush()
}
