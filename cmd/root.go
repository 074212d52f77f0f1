// Package cmd contains the CLI commands for the adbkb knowledge
// assistant.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "adbkb",
	Short: "ADB knowledge assistant",
	Long: `adbkb answers Android Debug Bridge questions from a curated
knowledge base. Evidence is retrieved with hybrid vector and keyword
search, then routed through specialist agents for the final answer.

Run "adbkb serve" to start the HTTP API, "adbkb ingest" to load
knowledge files, or "adbkb ask" for a one-shot question.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
