// Package ingest loads knowledge files into the knowledge base:
// flattening structured entries to text, chunking, embedding, and
// inserting.
package ingest

import (
	"strconv"
	"strings"
)

// Chunk is a piece of text ready for embedding, with its provenance
// metadata.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// Chunker splits text into overlapping chunks, preferring sentence
// boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a Chunker. Callers keep 0 <= overlap < size;
// ChunkText guarantees forward progress regardless of where sentence
// breaks land.
func NewChunker(size, overlap int) *Chunker {
	return &Chunker{
		chunkSize:    size,
		chunkOverlap: overlap,
	}
}

// ChunkText splits text into overlapping chunks. When a chunk would cut
// mid-sentence and a period or newline sits past the midpoint, the
// chunk ends there instead. Each chunk carries positional metadata on
// top of the entry metadata.
func (c *Chunker) ChunkText(text string, metadata map[string]string) []Chunk {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var chunks []Chunk
	start := 0
	chunkID := 0

	for start < len(text) {
		// end may point past the text; the slice is clamped but the
		// advance below must use the unclamped value to terminate.
		end := start + c.chunkSize
		piece := text[start:min(end, len(text))]

		if end < len(text) {
			lastPeriod := strings.LastIndexByte(piece, '.')
			lastNewline := strings.LastIndexByte(piece, '\n')
			breakPoint := max(lastPeriod, lastNewline)

			if float64(breakPoint) > float64(c.chunkSize)*0.5 {
				end = start + breakPoint + 1
				piece = text[start:end]
			}
		}

		chunkMetadata := make(map[string]string, len(metadata)+4)
		for k, v := range metadata {
			chunkMetadata[k] = v
		}
		chunkMetadata["chunk_id"] = strconv.Itoa(chunkID)
		chunkMetadata["chunk_size"] = strconv.Itoa(len(piece))
		chunkMetadata["start_char"] = strconv.Itoa(start)
		chunkMetadata["end_char"] = strconv.Itoa(end)

		chunks = append(chunks, Chunk{
			Text:     strings.TrimSpace(piece),
			Metadata: chunkMetadata,
		})

		// A sentence break can pull end back behind start+overlap,
		// which would move the window backwards; fall back to a fixed
		// stride so the window always advances.
		next := end - c.chunkOverlap
		if next <= start {
			next = start + (c.chunkSize - c.chunkOverlap)
		}
		start = next
		chunkID++
	}

	return chunks
}
