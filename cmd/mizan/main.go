package main

import (
	"os"

	"github.com/mizanlabs/mizan/cmd/mizan/commands"
)

// main is the entry point for the Mizan CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
