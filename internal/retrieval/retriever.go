package retrieval

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firebase/genkit/go/ai"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// VectorScanner ranks embedded records against a query vector.
// *knowledge.VectorIndex satisfies it.
type VectorScanner interface {
	Scan(ctx context.Context, queryVector []float32, topK int, filter map[string]string) ([]knowledge.Result, error)
}

// KeywordSearcher finds records by lexical match. *knowledge.KeywordIndex
// satisfies it.
type KeywordSearcher interface {
	Search(ctx context.Context, text string, topK int) ([]knowledge.Record, error)
}

// Retriever combines semantic and lexical search over the knowledge
// base. The embedding scan is authoritative: its results come first,
// ranked by similarity. Keyword hits fill the remaining slots in their
// lexical order, each deduplicated by record ID against what the scan
// already returned. A keyword-side failure degrades the result to
// vector-only; an embedding failure aborts the retrieval.
type Retriever struct {
	embedder ai.Embedder
	vectors  VectorScanner
	keywords KeywordSearcher
	logger   *slog.Logger

	defaultTopK   int
	defaultHybrid bool
}

// New creates a Retriever. keywords may be nil, which disables the
// hybrid supplement regardless of options.
func New(embedder ai.Embedder, vectors VectorScanner, keywords KeywordSearcher, defaultTopK int, defaultHybrid bool, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &Retriever{
		embedder:      embedder,
		vectors:       vectors,
		keywords:      keywords,
		logger:        logger,
		defaultTopK:   defaultTopK,
		defaultHybrid: defaultHybrid,
	}
}

// Retrieve returns up to topK records relevant to query.
//
// Usage:
//
//	results, err := r.Retrieve(ctx, "device unauthorized",
//	    retrieval.WithTopK(5),
//	    retrieval.WithFilter("type", "error_pattern"))
func (r *Retriever) Retrieve(ctx context.Context, query string, opts ...SearchOption) ([]knowledge.Result, error) {
	cfg := buildSearchConfig(r.defaultTopK, r.defaultHybrid, opts)
	if cfg.topK <= 0 || query == "" {
		return nil, nil
	}

	queryVector, err := r.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	vectorResults, err := r.vectors.Scan(ctx, queryVector, cfg.topK, cfg.filter)
	if err != nil {
		return nil, fmt.Errorf("scanning embeddings: %w", err)
	}

	if !cfg.hybrid || r.keywords == nil {
		return vectorResults, nil
	}

	keywordRecords, err := r.keywords.Search(ctx, query, cfg.topK)
	if err != nil {
		// Degraded mode: the semantic results stand on their own.
		r.logger.Warn("keyword search failed, returning vector results only", "error", err)
		return vectorResults, nil
	}

	return mergeResults(vectorResults, keywordRecords, cfg.topK), nil
}

// embedQuery converts the query text to its embedding vector.
func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	resp, err := r.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{
			ai.DocumentFromText(query, nil),
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no embeddings")
	}
	return resp.Embeddings[0].Embedding, nil
}

// mergeResults appends keyword hits after the similarity-ranked vector
// results, skipping IDs the scan already produced, until topK entries
// are collected. Keyword-only entries carry a zero similarity score.
func mergeResults(vectorResults []knowledge.Result, keywordRecords []knowledge.Record, topK int) []knowledge.Result {
	merged := make([]knowledge.Result, 0, topK)
	seen := make(map[string]struct{}, topK)

	for _, res := range vectorResults {
		if len(merged) == topK {
			break
		}
		if _, dup := seen[res.Record.ID]; dup {
			continue
		}
		seen[res.Record.ID] = struct{}{}
		merged = append(merged, res)
	}

	for _, rec := range keywordRecords {
		if len(merged) == topK {
			break
		}
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		merged = append(merged, knowledge.Result{Record: rec})
	}

	return merged
}
