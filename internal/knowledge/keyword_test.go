package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/adbkb/adbkb/internal/log"
	"github.com/adbkb/adbkb/internal/sqlc"
)

// fakeKeywordQuerier simulates the text-search queries. contents keeps
// insertion order.
type fakeKeywordQuerier struct {
	contents    []sqlc.Document
	textErr     error
	fallbackErr error
}

func (f *fakeKeywordQuerier) SearchDocumentsText(_ context.Context, arg sqlc.SearchDocumentsTextParams) ([]sqlc.SearchDocumentsTextRow, error) {
	if f.textErr != nil {
		return nil, f.textErr
	}
	var rows []sqlc.SearchDocumentsTextRow
	for _, d := range f.contents {
		if strings.Contains(strings.ToLower(d.Content), strings.ToLower(arg.Query)) {
			rows = append(rows, sqlc.SearchDocumentsTextRow{
				ID: d.ID, Content: d.Content, Metadata: d.Metadata, Rank: 0.5,
			})
		}
		if len(rows) == int(arg.ResultLimit) {
			break
		}
	}
	return rows, nil
}

func (f *fakeKeywordQuerier) ListDocumentsByContentMatch(_ context.Context, arg sqlc.ListDocumentsByContentMatchParams) ([]sqlc.ListDocumentsByContentMatchRow, error) {
	if f.fallbackErr != nil {
		return nil, f.fallbackErr
	}
	var rows []sqlc.ListDocumentsByContentMatchRow
	for _, d := range f.contents {
		if strings.Contains(strings.ToLower(d.Content), strings.ToLower(arg.Pattern)) {
			rows = append(rows, sqlc.ListDocumentsByContentMatchRow{
				ID: d.ID, Content: d.Content, Metadata: d.Metadata,
			})
		}
		if len(rows) == int(arg.ResultLimit) {
			break
		}
	}
	return rows, nil
}

func metadataJSON(t *testing.T, m map[string]string) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestKeywordIndex_PrimarySearch(t *testing.T) {
	fake := &fakeKeywordQuerier{contents: []sqlc.Document{
		{ID: "1", Content: "adb devices lists connected devices", Metadata: metadataJSON(t, map[string]string{"type": TypeCommand})},
		{ID: "2", Content: "adb push copies files", Metadata: metadataJSON(t, nil)},
	}}
	idx := NewKeywordIndex(fake, log.NewNop())

	records, err := idx.Search(context.Background(), "devices", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 1 || records[0].ID != "1" {
		t.Errorf("records = %+v, want only doc 1", records)
	}
	if records[0].Metadata["type"] != TypeCommand {
		t.Errorf("metadata lost: %v", records[0].Metadata)
	}
}

func TestKeywordIndex_FallbackOnPrimaryFailure(t *testing.T) {
	fake := &fakeKeywordQuerier{
		contents: []sqlc.Document{
			{ID: "1", Content: "adb logcat prints logs", Metadata: metadataJSON(t, nil)},
		},
		textErr: errors.New("text index unsupported"),
	}
	idx := NewKeywordIndex(fake, log.NewNop())

	records, err := idx.Search(context.Background(), "LOGCAT", 5)
	if err != nil {
		t.Fatalf("Search must not propagate primary failure: %v", err)
	}
	if len(records) != 1 || records[0].ID != "1" {
		t.Errorf("fallback records = %+v, want doc 1", records)
	}
}

func TestKeywordIndex_BothStrategiesFail(t *testing.T) {
	fake := &fakeKeywordQuerier{
		textErr:     errors.New("text index unsupported"),
		fallbackErr: errors.New("connection lost"),
	}
	idx := NewKeywordIndex(fake, log.NewNop())

	records, err := idx.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("fallback must never raise, got %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty result, got %+v", records)
	}
}

func TestKeywordIndex_ZeroHitsIsNotFallback(t *testing.T) {
	fake := &fakeKeywordQuerier{contents: []sqlc.Document{
		{ID: "1", Content: "adb shell", Metadata: metadataJSON(t, nil)},
	}}
	idx := NewKeywordIndex(fake, log.NewNop())

	records, err := idx.Search(context.Background(), "wireless pairing", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected zero hits without fallback, got %+v", records)
	}
}

func TestKeywordIndex_TruncatesToTopK(t *testing.T) {
	fake := &fakeKeywordQuerier{contents: []sqlc.Document{
		{ID: "1", Content: "adb one", Metadata: metadataJSON(t, nil)},
		{ID: "2", Content: "adb two", Metadata: metadataJSON(t, nil)},
		{ID: "3", Content: "adb three", Metadata: metadataJSON(t, nil)},
	}}
	idx := NewKeywordIndex(fake, log.NewNop())

	records, err := idx.Search(context.Background(), "adb", 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestKeywordIndex_EmptyQuery(t *testing.T) {
	idx := NewKeywordIndex(&fakeKeywordQuerier{}, log.NewNop())

	records, err := idx.Search(context.Background(), "", 5)
	if err != nil || records != nil {
		t.Errorf("empty query: records=%v err=%v, want nil/nil", records, err)
	}
}
