package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/log"
)

func TestSynthesizer_LongDraftPassesThrough(t *testing.T) {
	gen := &mockGenerator{Response: textResponse("should never be used")}
	syn := NewSynthesizer(gen, log.NewNop())

	draft := strings.Repeat("a", 100)
	answer, err := syn.Synthesize(context.Background(), "query", CategoryCommandLookup, draft, nil)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if answer != draft {
		t.Error("draft of threshold length must pass through verbatim")
	}
	if gen.Calls != 0 {
		t.Errorf("Generate called %d times for a complete draft, want 0", gen.Calls)
	}
}

func TestSynthesizer_ShortDraftTriggersSynthesis(t *testing.T) {
	gen := &mockGenerator{Response: textResponse("a fuller synthesized answer")}
	syn := NewSynthesizer(gen, log.NewNop())

	answer, err := syn.Synthesize(context.Background(), "query", CategoryConceptual, "too short", evidence(1))
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if answer != "a fuller synthesized answer" {
		t.Errorf("answer = %q", answer)
	}
	if gen.Calls != 1 {
		t.Errorf("Generate calls = %d, want 1", gen.Calls)
	}
}

func TestSynthesizer_FailureKeepsDraft(t *testing.T) {
	syn := NewSynthesizer(&mockGenerator{Err: errors.New("model offline")}, log.NewNop())

	answer, err := syn.Synthesize(context.Background(), "query", CategoryWorkflow, "short draft", nil)
	if err != nil {
		t.Fatalf("a draft must survive synthesis failure: %v", err)
	}
	if answer != "short draft" {
		t.Errorf("answer = %q, want the draft", answer)
	}
}

func TestSynthesizer_FailureWithoutDraft(t *testing.T) {
	syn := NewSynthesizer(&mockGenerator{Err: errors.New("model offline")}, log.NewNop())

	_, err := syn.Synthesize(context.Background(), "query", CategoryConceptual, "", nil)
	if !errors.Is(err, ErrGenerationUnavailable) {
		t.Errorf("expected ErrGenerationUnavailable, got %v", err)
	}
}

func TestSynthesizer_BuildContext(t *testing.T) {
	syn := NewSynthesizer(&mockGenerator{}, log.NewNop())

	long := strings.Repeat("x", 700)
	results := []knowledge.Result{
		{Record: knowledge.Record{ID: "1", Content: long}},
		{Record: knowledge.Record{ID: "2", Content: "second"}},
		{Record: knowledge.Record{ID: "3", Content: "third"}},
		{Record: knowledge.Record{ID: "4", Content: "fourth"}},
	}

	ctx := syn.buildContext("draft answer", results)
	if !strings.Contains(ctx, "Primary Response:\ndraft answer") {
		t.Errorf("draft missing from context:\n%s", ctx)
	}
	if strings.Contains(ctx, "fourth") {
		t.Error("context must carry at most three evidence items")
	}
	if strings.Contains(ctx, strings.Repeat("x", 501)) {
		t.Error("evidence content must be capped at 500 characters")
	}
	if !strings.Contains(ctx, strings.Repeat("x", 500)) {
		t.Error("truncated evidence content missing")
	}
}

func TestSynthesizer_BuildContext_NoDraft(t *testing.T) {
	syn := NewSynthesizer(&mockGenerator{}, log.NewNop())

	ctx := syn.buildContext("", []knowledge.Result{
		{Record: knowledge.Record{ID: "1", Content: "only evidence"}},
	})
	if strings.Contains(ctx, "Primary Response") {
		t.Error("empty draft must not produce a primary response section")
	}
	if !strings.Contains(ctx, "only evidence") {
		t.Error("evidence missing from context")
	}
}
