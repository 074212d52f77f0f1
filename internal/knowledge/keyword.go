package knowledge

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/adbkb/adbkb/internal/sqlc"
)

// KeywordQuerier defines the database operations KeywordIndex needs.
// Interface defined by the consumer; *sqlc.Queries satisfies it.
type KeywordQuerier interface {
	// SearchDocumentsText performs relevance-ranked full-text search
	SearchDocumentsText(ctx context.Context, arg sqlc.SearchDocumentsTextParams) ([]sqlc.SearchDocumentsTextRow, error)

	// ListDocumentsByContentMatch performs unranked substring matching
	ListDocumentsByContentMatch(ctx context.Context, arg sqlc.ListDocumentsByContentMatchParams) ([]sqlc.ListDocumentsByContentMatchRow, error)
}

// KeywordIndex is the lexical fallback search, independent of
// embeddings. Primary strategy: relevance-ranked full-text search.
// When the primary strategy FAILS (not when it returns zero hits), a
// case-insensitive substring match over content takes over, unranked.
// The fallback never raises; an empty result is valid, not a fault.
type KeywordIndex struct {
	queries KeywordQuerier
	logger  *slog.Logger
}

// NewKeywordIndex creates a KeywordIndex backed by the given querier.
func NewKeywordIndex(queries KeywordQuerier, logger *slog.Logger) *KeywordIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &KeywordIndex{
		queries: queries,
		logger:  logger,
	}
}

// Search returns up to topK records lexically matching text.
// Full-text failure degrades to substring matching; substring failure
// degrades to an empty result. Search never returns an error.
func (idx *KeywordIndex) Search(ctx context.Context, text string, topK int) ([]Record, error) {
	if topK <= 0 || text == "" {
		return nil, nil
	}

	rows, err := idx.queries.SearchDocumentsText(ctx, sqlc.SearchDocumentsTextParams{
		Query:       text,
		ResultLimit: int32(topK), //nolint:gosec // topK is a small bounded request parameter
	})
	if err == nil {
		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, idx.toRecord(row.ID, row.Content, row.Metadata))
		}
		return records, nil
	}

	idx.logger.Warn("full-text search failed, falling back to substring match", "error", err)

	fallbackRows, err := idx.queries.ListDocumentsByContentMatch(ctx, sqlc.ListDocumentsByContentMatchParams{
		Pattern:     text,
		ResultLimit: int32(topK), //nolint:gosec // see above
	})
	if err != nil {
		idx.logger.Warn("substring fallback failed, returning empty result", "error", err)
		return nil, nil
	}

	records := make([]Record, 0, len(fallbackRows))
	for _, row := range fallbackRows {
		records = append(records, idx.toRecord(row.ID, row.Content, row.Metadata))
	}
	return records, nil
}

func (idx *KeywordIndex) toRecord(id, content string, metadataJSON []byte) Record {
	var metadata map[string]string
	if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
		idx.logger.Warn("failed to parse metadata", "document_id", id, "error", err)
		metadata = make(map[string]string)
	}
	return Record{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	}
}
