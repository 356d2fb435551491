package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
)

// NewPackagesCmd creates the packages command
func NewPackagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "packages",
		Short: "List available token packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackages()
		},
	}
}

func runPackages() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKENS\tPRICE\t")
	fmt.Fprintln(w, "──────\t─────\t")

	for _, pkg := range client.TokenPackages() {
		note := ""
		if pkg.Popular {
			note = "most popular"
		}
		fmt.Fprintf(w, "%d\t$%.2f\t%s\n", pkg.Tokens, pkg.Price, note)
	}

	w.Flush()

	fmt.Println("\nBuy a package with: cedula buy <tokens>")
	return nil
}
