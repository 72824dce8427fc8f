package main

import (
	"os"

	"github.com/codequal/codequal/internal/adapters/inbound/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
