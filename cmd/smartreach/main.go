// Package main is the entry point for the smartreach CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/smartreach/agent/cmd/smartreach/commands"
)

// version is injected at build time via ldflags.
var version = "dev"

func main() {
	// A local .env is optional, credentials can also live in the
	// system keyring.
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	rootCmd := commands.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
