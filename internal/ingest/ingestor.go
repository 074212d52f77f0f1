package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/uuid"

	"github.com/adbkb/adbkb/internal/knowledge"
)

// Inserter stores embedded records. *knowledge.VectorIndex satisfies it.
type Inserter interface {
	Insert(ctx context.Context, records []knowledge.Record) (int, error)
}

// Ingestor reads JSON knowledge files, chunks and embeds their entries,
// and inserts the result into the knowledge base.
type Ingestor struct {
	chunker  *Chunker
	embedder ai.Embedder
	index    Inserter
	logger   *slog.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(chunker *Chunker, embedder ai.Embedder, index Inserter, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{
		chunker:  chunker,
		embedder: embedder,
		index:    index,
		logger:   logger.With("component", "ingest"),
	}
}

// FileResult summarizes one ingested file.
type FileResult struct {
	Entries  int `json:"entries"`
	Chunks   int `json:"chunks"`
	Inserted int `json:"inserted"`
}

// DirectoryResult summarizes a directory ingestion.
type DirectoryResult struct {
	TotalInserted  int `json:"total_inserted"`
	FilesProcessed int `json:"files_processed"`
	FilesSucceeded int `json:"files_succeeded"`
}

// IngestFile ingests one JSON knowledge file. Two layouts are accepted:
// a bare array of entries, or an object with a knowledge_entries array.
func (ing *Ingestor) IngestFile(ctx context.Context, path string) (FileResult, error) {
	ing.logger.Info("ingesting file", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		return FileResult{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	var chunks []Chunk
	for _, entry := range entries {
		chunks = append(chunks, ing.chunker.ChunkEntry(entry)...)
	}
	ing.logger.Info("chunked entries", "entries", len(entries), "chunks", len(chunks))

	if len(chunks) == 0 {
		return FileResult{Entries: len(entries)}, nil
	}

	records, err := ing.embedChunks(ctx, chunks)
	if err != nil {
		return FileResult{Entries: len(entries), Chunks: len(chunks)}, err
	}

	inserted, err := ing.index.Insert(ctx, records)
	if err != nil {
		return FileResult{Entries: len(entries), Chunks: len(chunks), Inserted: inserted}, err
	}

	ing.logger.Info("ingested file", "path", filepath.Base(path), "inserted", inserted)
	return FileResult{Entries: len(entries), Chunks: len(chunks), Inserted: inserted}, nil
}

// IngestDirectory ingests every .json file under dir, recursively.
// Per-file failures are logged and skipped; the walk itself failing is
// an error.
func (ing *Ingestor) IngestDirectory(ctx context.Context, dir string) (DirectoryResult, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return DirectoryResult{}, fmt.Errorf("walking %s: %w", dir, err)
	}

	ing.logger.Info("found knowledge files", "dir", dir, "files", len(paths))

	result := DirectoryResult{FilesProcessed: len(paths)}
	for _, path := range paths {
		fileResult, err := ing.IngestFile(ctx, path)
		if err != nil {
			ing.logger.Error("failed to ingest file", "path", path, "error", err)
			continue
		}
		if fileResult.Inserted > 0 {
			result.TotalInserted += fileResult.Inserted
			result.FilesSucceeded++
		}
	}

	return result, nil
}

// embedChunks embeds all chunks in one batch call and pairs each with
// a fresh record ID.
func (ing *Ingestor) embedChunks(ctx context.Context, chunks []Chunk) ([]knowledge.Record, error) {
	input := make([]*ai.Document, len(chunks))
	for i, chunk := range chunks {
		input[i] = ai.DocumentFromText(chunk.Text, nil)
	}

	resp, err := ing.embedder.Embed(ctx, &ai.EmbedRequest{Input: input})
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(resp.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedder returned %d embeddings for %d chunks", len(resp.Embeddings), len(chunks))
	}

	now := time.Now()
	records := make([]knowledge.Record, len(chunks))
	for i, chunk := range chunks {
		records[i] = knowledge.Record{
			ID:        uuid.New().String(),
			Content:   chunk.Text,
			Metadata:  chunk.Metadata,
			Embedding: resp.Embeddings[i].Embedding,
			CreatedAt: now,
		}
	}
	return records, nil
}

// decodeEntries accepts both supported file layouts.
func decodeEntries(raw []byte) ([]map[string]any, error) {
	var direct []map[string]any
	if err := json.Unmarshal(raw, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		KnowledgeEntries []map[string]any `json:"knowledge_entries"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.KnowledgeEntries == nil {
		return nil, fmt.Errorf("unrecognized knowledge file layout")
	}
	return wrapped.KnowledgeEntries, nil
}
