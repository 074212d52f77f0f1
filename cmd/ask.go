package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/adbkb/adbkb/internal/app"
	"github.com/adbkb/adbkb/internal/config"
	"github.com/adbkb/adbkb/internal/retrieval"
)

var askTopK int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot ADB question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAsk(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	askCmd.Flags().IntVar(&askTopK, "top-k", 0, "number of documents to retrieve (0 uses the configured default)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(parent context.Context, question string) error {
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

	var opts []retrieval.SearchOption
	if askTopK > 0 {
		opts = append(opts, retrieval.WithTopK(askTopK))
	}

	evidence, err := a.Retriever.Retrieve(ctx, question, opts...)
	if err != nil {
		return fmt.Errorf("retrieving evidence: %w", err)
	}

	state, err := a.Graph.Run(ctx, question, evidence)
	if err != nil {
		return fmt.Errorf("answering: %w", err)
	}

	fmt.Println(state.FinalAnswer)
	return nil
}
