package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewBalanceCmd creates the balance command
func NewBalanceCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show your billing token balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runBalance(serverAlias string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	tokens, err := api.TokenBalance()
	if err != nil {
		return err
	}

	fmt.Printf("Token balance: %d\n", tokens)
	if tokens == 0 {
		fmt.Println("\nBuy tokens with: cedula buy <tokens>")
	}

	return nil
}
