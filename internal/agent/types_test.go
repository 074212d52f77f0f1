package agent

import (
	"context"

	"github.com/firebase/genkit/go/ai"
)

// mockGenerator is a mock implementation of the Generator interface for testing.
type mockGenerator struct {
	// Response is the canned response to return when Generate is called.
	Response *ai.ModelResponse
	// Err is the error to return when Generate is called.
	Err error
	// GenerateFunc allows for custom logic to be executed when Generate is called.
	GenerateFunc func(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)

	// Calls counts Generate invocations.
	Calls int
}

// Generate returns the canned response or error.
func (m *mockGenerator) Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
	m.Calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, opts...)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// textResponse builds an ai.ModelResponse carrying the given text.
func textResponse(text string) *ai.ModelResponse {
	return &ai.ModelResponse{
		Message: ai.NewModelMessage(ai.NewTextPart(text)),
	}
}
