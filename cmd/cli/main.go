package main

import (
	"os"

	"github.com/jce-consulta/cedula-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
