package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"

	"github.com/adbkb/adbkb/internal/sqlc"
)

// VectorQuerier defines the database operations VectorIndex needs.
// Following Go best practices the interface is defined by the consumer,
// not the provider; *sqlc.Queries satisfies it in production and tests
// substitute an in-memory fake.
type VectorQuerier interface {
	// UpsertDocument inserts or updates a document
	UpsertDocument(ctx context.Context, arg sqlc.UpsertDocumentParams) error

	// ListDocumentsWithEmbeddings lists embedded documents matching a metadata filter
	ListDocumentsWithEmbeddings(ctx context.Context, filterMetadata []byte) ([]sqlc.ListDocumentsWithEmbeddingsRow, error)

	// ListDocumentsWithEmbeddingsAll lists every embedded document
	ListDocumentsWithEmbeddingsAll(ctx context.Context) ([]sqlc.ListDocumentsWithEmbeddingsAllRow, error)

	// CountDocumentsAll counts all documents
	CountDocumentsAll(ctx context.Context) (int64, error)

	// CountDocumentsByType counts documents grouped by metadata type
	CountDocumentsByType(ctx context.Context) ([]sqlc.CountDocumentsByTypeRow, error)

	// DeleteDocument deletes a document by ID
	DeleteDocument(ctx context.Context, id string) error
}

// VectorIndex stores knowledge records and ranks them by brute-force
// cosine similarity. Every record with an embedding is evaluated on
// each scan — O(N·D) by design. That keeps scoring exact and
// deterministic; an ANN accelerator can later replace Scan behind the
// same interface without changing caller-visible behavior.
//
// VectorIndex is safe for concurrent reads.
type VectorIndex struct {
	queries VectorQuerier
	logger  *slog.Logger
}

// NewVectorIndex creates a VectorIndex backed by the given querier.
// A nil logger falls back to slog.Default().
func NewVectorIndex(queries VectorQuerier, logger *slog.Logger) *VectorIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorIndex{
		queries: queries,
		logger:  logger,
	}
}

// Insert stores a batch of records. Records are written one statement
// at a time in request order; on failure the count of records already
// inserted is returned together with an error wrapping
// ErrStorageUnavailable.
func (idx *VectorIndex) Insert(ctx context.Context, records []Record) (int, error) {
	inserted := 0
	for _, rec := range records {
		metadataJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return inserted, fmt.Errorf("marshaling metadata for %q: %w", rec.ID, err)
		}

		var embedding *pgvector.Vector
		if len(rec.Embedding) > 0 {
			v := pgvector.NewVector(rec.Embedding)
			embedding = &v
		}

		err = idx.queries.UpsertDocument(ctx, sqlc.UpsertDocumentParams{
			ID:        rec.ID,
			Content:   rec.Content,
			Embedding: embedding,
			Metadata:  metadataJSON,
			CreatedAt: pgtype.Timestamptz{Time: rec.CreatedAt, Valid: !rec.CreatedAt.IsZero()},
		})
		if err != nil {
			return inserted, fmt.Errorf("%w: upserting document %q: %w", ErrStorageUnavailable, rec.ID, err)
		}
		inserted++
	}

	idx.logger.Debug("inserted records", "count", inserted)
	return inserted, nil
}

// Scan ranks every embedded record against queryVector by cosine
// similarity and returns the topK best, sorted by descending score.
// filter is applied as an exact-match conjunction over metadata fields
// before scoring. Ties keep insertion order (stable sort) so results
// stay deterministic. An empty index yields an empty result, never an
// error.
func (idx *VectorIndex) Scan(ctx context.Context, queryVector []float32, topK int, filter map[string]string) ([]Result, error) {
	if topK <= 0 {
		return nil, nil
	}

	candidates, err := idx.listCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %w", ErrStorageUnavailable, err)
	}
	if len(candidates) == 0 {
		idx.logger.Debug("no embedded documents to scan")
		return nil, nil
	}

	idx.logger.Debug("computing similarity", "candidates", len(candidates))

	results := make([]Result, 0, len(candidates))
	for _, rec := range candidates {
		results = append(results, Result{
			Record: rec,
			Score:  cosineSimilarity(queryVector, rec.Embedding),
		})
	}

	// Stable: equal scores keep insertion (seq) order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Count returns the total number of stored documents.
func (idx *VectorIndex) Count(ctx context.Context) (int64, error) {
	count, err := idx.queries.CountDocumentsAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: counting documents: %w", ErrStorageUnavailable, err)
	}
	return count, nil
}

// TypeDistribution returns document counts grouped by metadata type.
func (idx *VectorIndex) TypeDistribution(ctx context.Context) (map[string]int64, error) {
	rows, err := idx.queries.CountDocumentsByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: counting documents by type: %w", ErrStorageUnavailable, err)
	}

	dist := make(map[string]int64, len(rows))
	for _, row := range rows {
		dist[row.DocType] = row.DocCount
	}
	return dist, nil
}

// Delete removes a record by ID.
func (idx *VectorIndex) Delete(ctx context.Context, id string) error {
	if err := idx.queries.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("%w: deleting document %q: %w", ErrStorageUnavailable, id, err)
	}
	idx.logger.Debug("deleted document", "id", id)
	return nil
}

// listCandidates fetches all embedded documents, filtered when a
// metadata filter is present.
func (idx *VectorIndex) listCandidates(ctx context.Context, filter map[string]string) ([]Record, error) {
	if len(filter) > 0 {
		filterJSON, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("marshaling filter: %w", err)
		}
		rows, err := idx.queries.ListDocumentsWithEmbeddings(ctx, filterJSON)
		if err != nil {
			return nil, err
		}
		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, idx.rowToRecord(row.ID, row.Content, row.Metadata, row.Embedding))
		}
		return records, nil
	}

	rows, err := idx.queries.ListDocumentsWithEmbeddingsAll(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, idx.rowToRecord(row.ID, row.Content, row.Metadata, row.Embedding))
	}
	return records, nil
}

// rowToRecord converts a database row to a Record.
func (idx *VectorIndex) rowToRecord(id, content string, metadataJSON []byte, embedding *pgvector.Vector) Record {
	var metadata map[string]string
	if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
		idx.logger.Warn("failed to parse metadata", "document_id", id, "error", err)
		metadata = make(map[string]string)
	}

	var vec []float32
	if embedding != nil {
		vec = embedding.Slice()
	}

	return Record{
		ID:        id,
		Content:   content,
		Metadata:  metadata,
		Embedding: vec,
	}
}
