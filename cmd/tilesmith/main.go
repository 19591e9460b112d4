// Package main is the entry point for the tilesmith CLI.
package main

import (
	"os"

	"github.com/f3rmion/tilesmith/cmd/tilesmith/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
