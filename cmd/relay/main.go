package main

import (
	"os"

	"github.com/relay-run/relay/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// Execute already printed the error
		os.Exit(1)
	}
}
