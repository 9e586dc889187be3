// Package main is the entry point of etemplate-cli: offline conversion of
// legacy templates and cache maintenance for the template service.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	commands "etemplate-service/cmd/etemplate-cli/internal/commands"
)

func main() {
	// stdout carries converted templates
	log.SetOutput(os.Stderr)

	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}
