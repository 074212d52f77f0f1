package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/adbkb/adbkb/internal/knowledge"
)

const (
	// A specialist answer at least this long is considered complete
	// and returned verbatim.
	synthesisThreshold = 100

	// How much raw evidence the synthesis prompt may carry.
	synthesisMaxDocs    = 3
	synthesisDocCharCap = 500
)

const synthesizerPrompt = `You are a synthesis agent that creates comprehensive, accurate answers.

Your role:
- Combine information from multiple sources
- Ensure accuracy and completeness
- Format answers clearly and professionally
- Include examples where appropriate
- Be concise but thorough

Create a well-structured response that directly answers the user's query.`

// Synthesizer turns a specialist's draft into the final answer. A
// sufficiently long draft passes through untouched; a short one is
// expanded with raw evidence through one synthesis generation call.
type Synthesizer struct {
	generator Generator
	logger    *slog.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(generator Generator, logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{
		generator: generator,
		logger:    logger.With("component", "synthesizer"),
	}
}

// Synthesize produces the final answer for the query. When synthesis
// generation fails the draft stands, however short; the pipeline never
// loses an answer it already has.
func (s *Synthesizer) Synthesize(ctx context.Context, query string, category Category, draft string, evidence []knowledge.Result) (string, error) {
	if len(draft) >= synthesisThreshold {
		s.logger.Info("returning specialist answer verbatim", "length", len(draft))
		return draft, nil
	}

	resp, err := s.generator.Generate(ctx,
		ai.WithSystem(synthesizerPrompt),
		ai.WithPrompt("User Query: %s\nQuery Type: %s\n\nAvailable Information:\n%s\n\nSynthesize a comprehensive answer to the user's query.",
			query, category, s.buildContext(draft, evidence)),
	)
	if err != nil {
		if draft != "" {
			s.logger.Warn("synthesis failed, keeping specialist answer", "error", err)
			return draft, nil
		}
		return "", fmt.Errorf("%w: synthesizing answer: %w", ErrGenerationUnavailable, err)
	}

	s.logger.Info("synthesis completed")
	return resp.Text(), nil
}

// buildContext combines the draft with truncated raw evidence.
func (s *Synthesizer) buildContext(draft string, evidence []knowledge.Result) string {
	var parts []string

	if draft != "" {
		parts = append(parts, fmt.Sprintf("Primary Response:\n%s\n", draft))
	}

	if len(evidence) > 0 {
		parts = append(parts, "Additional Context:")
		if len(evidence) > synthesisMaxDocs {
			evidence = evidence[:synthesisMaxDocs]
		}
		for i, res := range evidence {
			content := res.Record.Content
			if len(content) > synthesisDocCharCap {
				content = content[:synthesisDocCharCap]
			}
			parts = append(parts, fmt.Sprintf("%d. %s\n", i+1, content))
		}
	}

	return strings.Join(parts, "\n")
}
