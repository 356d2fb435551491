package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewBuyCmd creates the buy command
func NewBuyCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "buy <tokens>",
		Short: "Create a payment order for billing tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tokens, err := strconv.Atoi(args[0])
			if err != nil || tokens <= 0 {
				return fmt.Errorf("invalid token amount: %s", args[0])
			}
			return runBuy(tokens, serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runBuy(tokens int, serverAlias string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	order, err := api.CreatePaymentOrder(tokens)
	if err != nil {
		return err
	}

	fmt.Println("✓ Payment order created!")
	fmt.Printf("\nOrder ID:  %s\n", order.ID)
	fmt.Printf("Tokens:    %d\n", order.Tokens)
	fmt.Printf("Amount:    $%.2f\n", order.Amount)
	if order.PaymentURL != "" {
		fmt.Printf("Pay at:    %s\n", order.PaymentURL)
	}
	fmt.Printf("\nAfter paying, run: cedula verify %s\n", order.ID)

	return nil
}
