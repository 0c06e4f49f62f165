// Package main is the entry point for the multicloud-cost CLI.
package main

import (
	"os"

	"multicloud-cost/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
