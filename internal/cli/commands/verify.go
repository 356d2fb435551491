package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "verify <order-id>",
		Short: "Verify a payment order and credit its tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args[0], serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runVerify(orderID, serverAlias string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	verification, err := api.VerifyPayment(orderID)
	if err != nil {
		return err
	}

	if !verification.Verified {
		fmt.Println("Payment not confirmed yet. Try again in a moment.")
		return nil
	}

	fmt.Printf("✓ Payment verified! %d token(s) credited.\n", verification.Tokens)
	return nil
}
