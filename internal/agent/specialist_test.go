package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/log"
)

func evidence(n int) []knowledge.Result {
	results := make([]knowledge.Result, n)
	for i := range results {
		results[i] = knowledge.Result{
			Record: knowledge.Record{
				ID:      fmt.Sprintf("doc-%d", i+1),
				Content: fmt.Sprintf("content of document %d", i+1),
				Metadata: map[string]string{
					"type":     knowledge.TypeCommand,
					"category": "device_management",
				},
			},
			Score: 0.9,
		}
	}
	return results
}

func TestSpecialist_Process(t *testing.T) {
	gen := &mockGenerator{Response: textResponse("adb devices lists all connected devices.")}
	expert := NewCommandExpert(gen, log.NewNop())

	answer, err := expert.Process(context.Background(), "how to list devices", evidence(2))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if answer != "adb devices lists all connected devices." {
		t.Errorf("answer = %q", answer)
	}
	if gen.Calls != 1 {
		t.Errorf("Generate calls = %d, want 1", gen.Calls)
	}
}

func TestSpecialist_GenerationFailure(t *testing.T) {
	expert := NewCommandExpert(&mockGenerator{Err: errors.New("quota exceeded")}, log.NewNop())

	_, err := expert.Process(context.Background(), "query", nil)
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
}

func TestSpecialist_FormatEvidence_CapsAtFive(t *testing.T) {
	expert := NewCommandExpert(&mockGenerator{}, log.NewNop())

	formatted := expert.formatEvidence(evidence(8))
	if strings.Contains(formatted, "Document 6") {
		t.Error("evidence beyond the fifth item must not appear in context")
	}
	if !strings.Contains(formatted, "Document 5") {
		t.Error("fifth evidence item missing from context")
	}
	if !strings.Contains(formatted, "(Relevance: 0.90)") {
		t.Error("relevance score missing from context")
	}
}

func TestSpecialist_FormatEvidence_Empty(t *testing.T) {
	tests := []struct {
		specialist *Specialist
		wantNote   string
	}{
		{NewCommandExpert(&mockGenerator{}, log.NewNop()), "No relevant documentation found."},
		{NewTroubleshooter(&mockGenerator{}, log.NewNop()), "No similar issues found in knowledge base."},
		{NewCodeAssistant(&mockGenerator{}, log.NewNop()), "No code examples found."},
	}
	for _, tt := range tests {
		if got := tt.specialist.formatEvidence(nil); got != tt.wantNote {
			t.Errorf("%s empty note = %q, want %q", tt.specialist.Name(), got, tt.wantNote)
		}
	}
}

func TestTroubleshooter_HighlightsErrorPatterns(t *testing.T) {
	analyst := NewTroubleshooter(&mockGenerator{}, log.NewNop())

	results := []knowledge.Result{
		{
			Record: knowledge.Record{
				ID:      "err-1",
				Content: "restart the adb server",
				Metadata: map[string]string{
					"type":            knowledge.TypeErrorPattern,
					"error_indicator": "device unauthorized",
					"severity":        "high",
				},
			},
			Score: 0.8,
		},
		{
			Record: knowledge.Record{
				ID:       "doc-1",
				Content:  "general documentation",
				Metadata: map[string]string{"type": knowledge.TypeDocumentation},
			},
			Score: 0.5,
		},
	}

	formatted := analyst.formatEvidence(results)
	if !strings.Contains(formatted, "Error Pattern: device unauthorized (Severity: high)") {
		t.Errorf("error pattern annotation missing:\n%s", formatted)
	}
	if strings.Count(formatted, "Error Pattern:") != 1 {
		t.Error("non-error-pattern documents must not be annotated")
	}
}

func TestTroubleshooter_DefaultSeverity(t *testing.T) {
	analyst := NewTroubleshooter(&mockGenerator{}, log.NewNop())

	formatted := analyst.formatEvidence([]knowledge.Result{{
		Record: knowledge.Record{
			ID:      "err-1",
			Content: "fix",
			Metadata: map[string]string{
				"type":            knowledge.TypeErrorPattern,
				"error_indicator": "offline",
			},
		},
	}})
	if !strings.Contains(formatted, "(Severity: medium)") {
		t.Errorf("missing default severity:\n%s", formatted)
	}
}

func TestCodeAssistant_HighlightsOperations(t *testing.T) {
	assistant := NewCodeAssistant(&mockGenerator{}, log.NewNop())

	formatted := assistant.formatEvidence([]knowledge.Result{{
		Record: knowledge.Record{
			ID:      "code-1",
			Content: "subprocess.run([\"adb\", \"push\", src, dst])",
			Metadata: map[string]string{
				"type":      knowledge.TypeCodePattern,
				"operation": "file_transfer",
			},
		},
		Score: 0.7,
	}})
	if !strings.Contains(formatted, "Operation: file_transfer") {
		t.Errorf("operation annotation missing:\n%s", formatted)
	}
	if !strings.Contains(formatted, "[Code Example 1]") {
		t.Errorf("code example heading missing:\n%s", formatted)
	}
}
