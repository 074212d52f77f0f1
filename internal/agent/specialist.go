package agent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// maxEvidenceItems caps how many retrieved documents a specialist
// folds into its prompt context.
const maxEvidenceItems = 5

const commandExpertPrompt = `You are an expert in Android Debug Bridge (ADB) commands.

Your role:
- Provide accurate ADB command syntax and usage
- Explain command parameters and options
- Give practical examples
- Mention related commands
- Warn about common pitfalls

Format your response clearly with:
1. Command syntax
2. Description
3. Parameters/options (if any)
4. Examples
5. Common issues (if applicable)

Use the retrieved context to provide accurate information.`

const troubleshooterPrompt = `You are an expert ADB troubleshooter and problem solver.

Your role:
- Diagnose ADB and Android connectivity issues
- Provide step-by-step solutions
- Explain error messages clearly
- Suggest multiple approaches when applicable
- Prioritize solutions by likelihood of success

Format your response as:
1. Problem diagnosis
2. Root cause explanation
3. Step-by-step solution
4. Alternative solutions (if applicable)
5. Prevention tips

Use the retrieved context to provide accurate troubleshooting steps.`

const codeAssistantPrompt = `You are an expert developer specializing in ADB automation.

Your role:
- Generate clean, production-ready code for ADB operations
- Include error handling and validation
- Add helpful comments
- Follow best practices from the retrieved examples
- Invoke ADB commands through subprocess execution

Format your response:
1. Brief explanation of the approach
2. Complete, runnable code
3. Usage example
4. Important notes or warnings

Use the retrieved code patterns as reference for style and best practices.`

const conceptualExplainerPrompt = `You are an expert in Android Debug Bridge (ADB) concepts and internals.

Your role:
- Explain how ADB mechanisms work and why
- Compare related concepts and clear up confusions
- Give concrete examples grounding each explanation
- Mention the commands involved
- Point out common misconceptions

Use the retrieved context to provide accurate information.`

// Specialist answers queries of one category, grounding the generation
// call on retrieved evidence. All specialists share the same shape and
// differ in system prompt, evidence framing, and metadata highlighting.
type Specialist struct {
	name         string
	systemPrompt string
	evidenceHead string
	emptyNote    string
	annotate     func(metadata map[string]string) string
	generator    Generator
	logger       *slog.Logger
}

// NewCommandExpert answers command lookup (and workflow) queries.
func NewCommandExpert(generator Generator, logger *slog.Logger) *Specialist {
	return newSpecialist("command_expert", commandExpertPrompt, generator, logger,
		"Document", "No relevant documentation found.",
		func(metadata map[string]string) string {
			return fmt.Sprintf("Type: %s\nCategory: %s",
				metadataValue(metadata, "type"), metadataValue(metadata, "category"))
		})
}

// NewTroubleshooter answers debugging queries, highlighting error
// patterns in the evidence.
func NewTroubleshooter(generator Generator, logger *slog.Logger) *Specialist {
	return newSpecialist("troubleshooter", troubleshooterPrompt, generator, logger,
		"Solution", "No similar issues found in knowledge base.",
		func(metadata map[string]string) string {
			if metadata["type"] != knowledge.TypeErrorPattern {
				return ""
			}
			severity := metadata["severity"]
			if severity == "" {
				severity = "medium"
			}
			return fmt.Sprintf("Error Pattern: %s (Severity: %s)", metadata["error_indicator"], severity)
		})
}

// NewCodeAssistant answers code generation queries, highlighting code
// patterns in the evidence.
func NewCodeAssistant(generator Generator, logger *slog.Logger) *Specialist {
	return newSpecialist("code_assistant", codeAssistantPrompt, generator, logger,
		"Code Example", "No code examples found.",
		func(metadata map[string]string) string {
			if metadata["type"] != knowledge.TypeCodePattern {
				return ""
			}
			return fmt.Sprintf("Operation: %s", metadata["operation"])
		})
}

// NewConceptualExplainer answers conceptual queries. It is the command
// expert's structure under concept-explanation framing.
func NewConceptualExplainer(generator Generator, logger *slog.Logger) *Specialist {
	return newSpecialist("conceptual_explainer", conceptualExplainerPrompt, generator, logger,
		"Document", "No relevant documentation found.",
		func(metadata map[string]string) string {
			return fmt.Sprintf("Type: %s\nCategory: %s",
				metadataValue(metadata, "type"), metadataValue(metadata, "category"))
		})
}

func newSpecialist(name, systemPrompt string, generator Generator, logger *slog.Logger, evidenceHead, emptyNote string, annotate func(map[string]string) string) *Specialist {
	if logger == nil {
		logger = slog.Default()
	}
	return &Specialist{
		name:         name,
		systemPrompt: systemPrompt,
		evidenceHead: evidenceHead,
		emptyNote:    emptyNote,
		annotate:     annotate,
		generator:    generator,
		logger:       logger.With("specialist", name),
	}
}

// Name returns the specialist's identifier.
func (s *Specialist) Name() string { return s.name }

// Process answers the query using the retrieved evidence. A generation
// failure returns an error wrapping ErrGenerationUnavailable; no answer
// is ever fabricated.
func (s *Specialist) Process(ctx context.Context, query string, evidence []knowledge.Result) (string, error) {
	s.logger.Info("processing query", "query_length", len(query), "evidence", len(evidence))

	resp, err := s.generator.Generate(ctx,
		ai.WithSystem(s.systemPrompt),
		ai.WithPrompt("Query: %s\n\nRetrieved Context:\n%s\n\nProvide a comprehensive answer to this query.",
			query, s.formatEvidence(evidence)),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationUnavailable, s.name, err)
	}
	return resp.Text(), nil
}

// formatEvidence renders at most maxEvidenceItems results, each with
// its relevance score and specialist-specific metadata annotation.
func (s *Specialist) formatEvidence(evidence []knowledge.Result) string {
	if len(evidence) == 0 {
		return s.emptyNote
	}
	if len(evidence) > maxEvidenceItems {
		evidence = evidence[:maxEvidenceItems]
	}

	var b strings.Builder
	for i, res := range evidence {
		fmt.Fprintf(&b, "[%s %d] (Relevance: %.2f)\n", s.evidenceHead, i+1, res.Score)
		if note := s.annotate(res.Record.Metadata); note != "" {
			b.WriteString(note)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Content:\n%s\n\n", res.Record.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func metadataValue(metadata map[string]string, key string) string {
	if v := metadata[key]; v != "" {
		return v
	}
	return "unknown"
}
