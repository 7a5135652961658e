package main

import (
	"os"

	"tabload/internal/cli"

	_ "tabload/internal/storage/all" // register database backends
)

func main() {
	if err := cli.Execute(); err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
