package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adbkb/adbkb/internal/knowledge"
	"github.com/adbkb/adbkb/internal/log"
	"github.com/adbkb/adbkb/internal/testutil"
)

type fakeInserter struct {
	records []knowledge.Record
	err     error
}

func (f *fakeInserter) Insert(_ context.Context, records []knowledge.Record) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.records = append(f.records, records...)
	return len(records), nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const wrappedKnowledge = `{
  "knowledge_entries": [
    {"type": "command", "command": "adb devices", "description": "list devices"},
    {"type": "command", "command": "adb push", "description": "copy file to device"}
  ]
}`

const arrayKnowledge = `[
  {"type": "troubleshooting", "issue": "device offline", "symptoms": ["adb devices shows offline"]}
]`

func newTestIngestor(inserter Inserter) *Ingestor {
	return NewIngestor(
		NewChunker(1000, 200),
		&testutil.FakeEmbedder{Default: []float32{0.1, 0.2}},
		inserter,
		log.NewNop(),
	)
}

func TestIngestor_WrappedLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "commands.json", wrappedKnowledge)
	inserter := &fakeInserter{}

	result, err := newTestIngestor(inserter).IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if result.Entries != 2 || result.Inserted != 2 {
		t.Errorf("result = %+v", result)
	}
	if len(inserter.records) != 2 {
		t.Fatalf("inserted %d records", len(inserter.records))
	}
	rec := inserter.records[0]
	if rec.ID == "" || len(rec.Embedding) != 2 || rec.Metadata["type"] != knowledge.TypeCommand {
		t.Errorf("record = %+v", rec)
	}
}

func TestIngestor_ArrayLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "issues.json", arrayKnowledge)
	inserter := &fakeInserter{}

	result, err := newTestIngestor(inserter).IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("result = %+v", result)
	}
	if inserter.records[0].Metadata["issue"] != "device offline" {
		t.Errorf("metadata = %v", inserter.records[0].Metadata)
	}
}

func TestIngestor_UnknownLayout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `{"something": "else"}`)

	_, err := newTestIngestor(&fakeInserter{}).IngestFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for unrecognized layout")
	}
}

func TestIngestor_EmbedFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "commands.json", wrappedKnowledge)

	ing := NewIngestor(
		NewChunker(1000, 200),
		&testutil.FakeEmbedder{Err: errors.New("quota exhausted")},
		&fakeInserter{},
		log.NewNop(),
	)
	_, err := ing.IngestFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected embedding error to propagate")
	}
}

func TestIngestor_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.json", wrappedKnowledge)
	writeFile(t, dir, "broken.json", "{not json")
	writeFile(t, dir, "notes.txt", "ignored")
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	writeFile(t, sub, "b.json", arrayKnowledge)

	inserter := &fakeInserter{}
	result, err := newTestIngestor(inserter).IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if result.FilesProcessed != 3 {
		t.Errorf("FilesProcessed = %d, want 3 json files", result.FilesProcessed)
	}
	if result.FilesSucceeded != 2 || result.TotalInserted != 3 {
		t.Errorf("result = %+v", result)
	}
}
