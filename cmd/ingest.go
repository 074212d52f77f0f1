package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adbkb/adbkb/internal/app"
	"github.com/adbkb/adbkb/internal/config"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Load knowledge files into the knowledge base",
	Long: `Ingest reads JSON knowledge files, chunks long entries, embeds
the chunks, and stores them. The path may be a single file or a
directory that is walked recursively for .json files.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(parent context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			a.Logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading path: %w", err)
	}

	if info.IsDir() {
		result, err := a.Ingestor.IngestDirectory(ctx, path)
		if err != nil {
			return fmt.Errorf("ingesting directory: %w", err)
		}
		fmt.Printf("Processed %d files (%d succeeded), inserted %d documents\n",
			result.FilesProcessed, result.FilesSucceeded, result.TotalInserted)
		return nil
	}

	result, err := a.Ingestor.IngestFile(ctx, path)
	if err != nil {
		return fmt.Errorf("ingesting file: %w", err)
	}
	fmt.Printf("Parsed %d entries into %d chunks, inserted %d documents\n",
		result.Entries, result.Chunks, result.Inserted)
	return nil
}
