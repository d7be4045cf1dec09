package main

import (
	"os"

	"github.com/GlintPay/grip/cmd/gripctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
