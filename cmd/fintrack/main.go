// Package main is the entry point for the fintrack server and its admin CLI.
package main

import (
	"os"

	"github.com/valeriaulyamaeva/fintrack/cmd/fintrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
