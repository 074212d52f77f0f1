package knowledge

import "time"

// Metadata type constants for knowledge records. These mirror the
// entry types produced by the ingestion chunker.
const (
	TypeCommand         = "command"
	TypeTroubleshooting = "troubleshooting"
	TypeDocumentation   = "documentation"
	TypeErrorPattern    = "error_pattern"
	TypeCodePattern     = "code_pattern"
)

// Record is a knowledge record: the textual content of one chunk plus
// its metadata and embedding vector. Records are immutable once
// inserted; relevance scores are attached per query via Result and are
// never persisted.
type Record struct {
	ID        string            // Unique identifier
	Content   string            // Chunk text content
	Metadata  map[string]string // type, category, source, ...
	Embedding []float32         // Embedding vector (fixed dimensionality)
	CreatedAt time.Time
}

// Result pairs a Record with its query-time relevance score.
// A Result is constructed fresh per query and discarded after the
// orchestration step consumes it.
type Result struct {
	Record Record
	Score  float32 // Cosine similarity in [-1, 1]
}
