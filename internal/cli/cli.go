// Package cli provides the command-line interface for StockSage
package cli

import (
	"errors"
	"os"
)

// Run starts the CLI application
func Run() {
	rootCmd := NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		// Session failures have already printed their diagnostic line.
		var reported *reportedError
		if !errors.As(err, &reported) {
			DisplayError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
