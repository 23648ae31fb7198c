// Package main is the entry point for the recap CLI application.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/recap-cli/recap/cmd"
	"github.com/recap-cli/recap/internal/logging"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err == nil {
		logging.Debug("loaded .env file")
	}

	if err := cmd.Execute(); err != nil {
		logging.Error("command failed", "error", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
