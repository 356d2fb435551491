package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jce-consulta/cedula-cli/internal/cli/client"
	"github.com/jce-consulta/cedula-cli/internal/validate"
)

// NewQueryCmd creates the query command
func NewQueryCmd() *cobra.Command {
	var serverAlias string
	var async bool

	cmd := &cobra.Command{
		Use:   "query <cedula>",
		Short: "Look up a cédula record (costs one token)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(args[0], serverAlias, async)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")
	cmd.Flags().BoolVar(&async, "async", false, "Enqueue the lookup and return the query ID immediately")

	return cmd
}

func runQuery(cedula, serverAlias string, async bool) error {
	if err := validate.Cedula(cedula); err != nil {
		return err
	}
	cleaned := validate.CleanCedula(cedula)

	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	// Pre-flight check: tokens available and queries enabled
	ok, err := api.CanQuery()
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no tokens available (or queries are disabled). Check 'cedula balance' or buy more with 'cedula buy <tokens>'")
	}

	if async {
		queryID, err := api.QueryCedulaAsync(cleaned)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Query enqueued: %s\n", queryID)
		fmt.Printf("Check the result with: cedula result %s\n", queryID)
		return nil
	}

	query, err := api.QueryCedula(cleaned)
	if err != nil {
		return err
	}

	printQuery(query)
	return nil
}

// NewResultCmd creates the result command for fetching a query by ID
func NewResultCmd() *cobra.Command {
	var serverAlias string

	cmd := &cobra.Command{
		Use:   "result <query-id>",
		Short: "Show the result of a past or asynchronous query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResult(args[0], serverAlias)
		},
	}

	cmd.Flags().StringVar(&serverAlias, "server", "", "Server alias (uses selected server if not specified)")

	return cmd
}

func runResult(queryID, serverAlias string) error {
	api, _, err := connect(serverAlias)
	if err != nil {
		return err
	}

	query, err := api.GetQuery(queryID)
	if err != nil {
		return err
	}

	printQuery(query)
	return nil
}

func printQuery(query *client.CedulaQuery) {
	fmt.Printf("Cédula:  %s\n", validate.FormatCedula(query.Cedula))
	fmt.Printf("Status:  %s\n", query.Status)
	fmt.Printf("Date:    %s\n", query.QueryDate)
	fmt.Printf("Cost:    %d token(s)\n", query.Cost)

	if query.Result == nil {
		if query.Status == client.QueryPending {
			fmt.Println("\nResult not ready yet.")
		} else {
			fmt.Println("\nNo record found.")
		}
		return
	}

	r := query.Result
	fmt.Println()
	fmt.Printf("Nombres:           %s\n", r.Nombres)
	fmt.Printf("Apellidos:         %s\n", r.Apellidos)
	fmt.Printf("Fecha nacimiento:  %s\n", r.FechaNacimiento)
	fmt.Printf("Lugar nacimiento:  %s\n", r.LugarNacimiento)
	fmt.Printf("Estado civil:      %s\n", r.EstadoCivil)
	fmt.Printf("Ocupación:         %s\n", r.Ocupacion)
	fmt.Printf("Nacionalidad:      %s\n", r.Nacionalidad)
	fmt.Printf("Sexo:              %s\n", r.Sexo)
}
