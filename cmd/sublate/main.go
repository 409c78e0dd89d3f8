package main

import (
	"os"

	"github.com/nmelo/sublate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
