package agent

import (
	"context"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"
)

// Generator abstracts model generation so tests can substitute a mock.
type Generator interface {
	Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error)
}

// ModelGenerator is the production Generator. It binds a model name and
// a generation config (temperature, output token cap) so callers only
// supply prompts. Two instances exist in practice: a cheap deterministic
// tier for routing and a larger tier for answering.
type ModelGenerator struct {
	g         *genkit.Genkit
	modelName string
	config    *genai.GenerateContentConfig
}

// NewModelGenerator creates a ModelGenerator. Model names without a
// provider prefix get the googleai provider.
func NewModelGenerator(g *genkit.Genkit, modelName string, temperature float32, maxTokens int32) *ModelGenerator {
	if !strings.Contains(modelName, "/") {
		modelName = "googleai/" + modelName
	}
	return &ModelGenerator{
		g:         g,
		modelName: modelName,
		config: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(temperature),
			MaxOutputTokens: maxTokens,
		},
	}
}

// Generate runs a generation call with the bound model and config.
func (m *ModelGenerator) Generate(ctx context.Context, opts ...ai.GenerateOption) (*ai.ModelResponse, error) {
	base := []ai.GenerateOption{
		ai.WithModelName(m.modelName),
		ai.WithConfig(m.config),
	}
	return genkit.Generate(ctx, m.g, append(base, opts...)...)
}
