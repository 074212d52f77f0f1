// Package testutil provides shared fakes and helpers for tests.
package testutil

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// FakeEmbedder is a deterministic ai.Embedder for tests. Texts present
// in Vectors map to their configured embedding; any other text maps to
// Default. Err, when set, fails every call.
type FakeEmbedder struct {
	Vectors map[string][]float32
	Default []float32
	Err     error

	// Calls records every embedded text in order.
	Calls []string
}

func (e *FakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	if e.Err != nil {
		return nil, e.Err
	}

	resp := &ai.EmbedResponse{}
	for _, doc := range req.Input {
		text := ""
		if len(doc.Content) > 0 {
			text = doc.Content[0].Text
		}
		e.Calls = append(e.Calls, text)

		vec, ok := e.Vectors[text]
		if !ok {
			vec = e.Default
		}
		if vec == nil {
			return nil, fmt.Errorf("no embedding configured for %q", text)
		}
		resp.Embeddings = append(resp.Embeddings, &ai.Embedding{Embedding: vec})
	}
	return resp, nil
}

func (e *FakeEmbedder) Name() string { return "fakeEmbedder" }

func (e *FakeEmbedder) Register(_ api.Registry) {}
