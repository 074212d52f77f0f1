package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"
)

const routerSystemPrompt = `You are a query classifier for an ADB/Android knowledge assistant.

Classify the user's query into ONE of these categories:
command_lookup, troubleshooting, code_generation, conceptual, workflow

Respond with ONLY the category name and a brief reason.

Examples:
Query: "How do I list installed packages?"
Classification: command_lookup
Reason: User wants specific ADB command

Query: "Device shows as unauthorized"
Classification: troubleshooting
Reason: User has an error to fix

Query: "Show me code to push a file"
Classification: code_generation
Reason: User wants code example

Query: "What's the difference between pairing and connection ports?"
Classification: conceptual
Reason: User wants to understand a concept

Query: "How do I set up wireless debugging?"
Classification: workflow
Reason: User wants step-by-step process`

// Router classifies queries into categories using the cheap generation
// tier. The model's free-text answer is scanned for the first category
// name in canonical order; no match defaults to conceptual.
type Router struct {
	generator Generator
	logger    *slog.Logger
}

// NewRouter creates a Router.
func NewRouter(generator Generator, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		generator: generator,
		logger:    logger.With("component", "router"),
	}
}

// Classify assigns a category to the query. Generation failure returns
// an error wrapping ErrGenerationUnavailable; an unparseable response
// does not, it falls back to conceptual.
func (r *Router) Classify(ctx context.Context, query string) (Category, error) {
	resp, err := r.generator.Generate(ctx,
		ai.WithSystem(routerSystemPrompt),
		ai.WithPrompt("Query: %s", query),
	)
	if err != nil {
		return "", fmt.Errorf("%w: classifying query: %w", ErrGenerationUnavailable, err)
	}

	lowered := strings.ToLower(resp.Text())
	for _, category := range Categories() {
		if strings.Contains(lowered, string(category)) {
			r.logger.Info("query classified", "category", category)
			return category, nil
		}
	}

	r.logger.Info("no category recognized in classification, defaulting", "category", CategoryConceptual)
	return CategoryConceptual, nil
}
