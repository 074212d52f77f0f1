package retrieval

import (
	"context"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// Define registers the hybrid retriever with Genkit under the given
// name, making it usable from Generate calls and the developer UI.
func (r *Retriever) Define(g *genkit.Genkit, name string) ai.Retriever {
	return genkit.DefineRetriever(
		g, name, nil,
		func(ctx context.Context, req *ai.RetrieverRequest) (*ai.RetrieverResponse, error) {
			queryText := extractQueryText(req)
			topK := extractTopK(req, r.defaultTopK)

			results, err := r.Retrieve(ctx, queryText, WithTopK(topK))
			if err != nil {
				return nil, err
			}

			return &ai.RetrieverResponse{
				Documents: toGenkitDocuments(results),
			}, nil
		},
	)
}

func extractQueryText(req *ai.RetrieverRequest) string {
	if req.Query != nil && len(req.Query.Content) > 0 {
		return req.Query.Content[0].Text
	}
	return ""
}

// extractTopK reads the "k" request option, tolerating the numeric
// types JSON decoding can produce.
func extractTopK(req *ai.RetrieverRequest, defaultK int) int {
	opts, ok := req.Options.(map[string]any)
	if !ok {
		return defaultK
	}
	k, exists := opts["k"]
	if !exists {
		return defaultK
	}

	var kInt int
	switch v := k.(type) {
	case int:
		kInt = v
	case int64:
		kInt = int(v)
	case float64:
		kInt = int(v)
	default:
		return defaultK
	}

	if kInt < 1 || kInt > 50 {
		return defaultK
	}
	return kInt
}

// toGenkitDocuments converts knowledge.Result to Genkit ai.Document,
// carrying the similarity score in metadata.
func toGenkitDocuments(results []knowledge.Result) []*ai.Document {
	docs := make([]*ai.Document, len(results))
	for i, result := range results {
		metadata := make(map[string]any, len(result.Record.Metadata)+1)
		for k, v := range result.Record.Metadata {
			metadata[k] = v
		}
		metadata["similarity"] = result.Score

		docs[i] = ai.DocumentFromText(result.Record.Content, metadata)
	}
	return docs
}
