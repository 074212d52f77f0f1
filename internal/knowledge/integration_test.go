package knowledge

import (
	"context"
	"testing"
	"time"

	"github.com/adbkb/adbkb/internal/log"
	"github.com/adbkb/adbkb/internal/sqlc"
	"github.com/adbkb/adbkb/internal/testutil"
)

// vec768 returns a 768-dimensional unit vector with a single hot axis,
// matching the vector(768) column.
func vec768(hot int) []float32 {
	v := make([]float32, 768)
	v[hot] = 1
	return v
}

func TestVectorIndexIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	queries := sqlc.New(tdb.Pool)
	idx := NewVectorIndex(queries, log.NewNop())

	records := []Record{
		{
			ID:        "cmd-1",
			Content:   "adb devices lists connected devices",
			Metadata:  map[string]string{"type": "command", "category": "basics"},
			Embedding: vec768(0),
			CreatedAt: time.Now(),
		},
		{
			ID:        "cmd-2",
			Content:   "adb logcat streams device logs",
			Metadata:  map[string]string{"type": "command", "category": "debugging"},
			Embedding: vec768(1),
			CreatedAt: time.Now(),
		},
		{
			ID:        "issue-1",
			Content:   "device unauthorized after connecting",
			Metadata:  map[string]string{"type": "troubleshooting"},
			Embedding: vec768(2),
			CreatedAt: time.Now(),
		},
	}

	inserted, err := idx.Insert(ctx, records)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if inserted != len(records) {
		t.Fatalf("inserted = %d, want %d", inserted, len(records))
	}

	t.Run("scan ranks by similarity", func(t *testing.T) {
		results, err := idx.Scan(ctx, vec768(1), 2, nil)
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].Record.ID != "cmd-2" {
			t.Errorf("best match = %q, want cmd-2", results[0].Record.ID)
		}
		if results[0].Score < 0.99 {
			t.Errorf("best score = %f, want ~1.0", results[0].Score)
		}
	})

	t.Run("metadata filter narrows candidates", func(t *testing.T) {
		results, err := idx.Scan(ctx, vec768(2), 5, map[string]string{"type": "command"})
		if err != nil {
			t.Fatalf("Scan: %v", err)
		}
		for _, res := range results {
			if res.Record.Metadata["type"] != "command" {
				t.Errorf("filter leaked record %q of type %q", res.Record.ID, res.Record.Metadata["type"])
			}
		}
		if len(results) != 2 {
			t.Errorf("got %d filtered results, want 2", len(results))
		}
	})

	t.Run("count and type distribution", func(t *testing.T) {
		count, err := idx.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != 3 {
			t.Errorf("count = %d, want 3", count)
		}

		dist, err := idx.TypeDistribution(ctx)
		if err != nil {
			t.Fatalf("TypeDistribution: %v", err)
		}
		if dist["command"] != 2 || dist["troubleshooting"] != 1 {
			t.Errorf("distribution = %v", dist)
		}
	})

	t.Run("upsert replaces content", func(t *testing.T) {
		update := records[0]
		update.Content = "adb devices -l lists connected devices with details"
		if _, err := idx.Insert(ctx, []Record{update}); err != nil {
			t.Fatalf("Insert (upsert): %v", err)
		}

		count, err := idx.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != 3 {
			t.Errorf("count after upsert = %d, want 3", count)
		}
	})

	t.Run("delete removes record", func(t *testing.T) {
		if err := idx.Delete(ctx, "issue-1"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		count, err := idx.Count(ctx)
		if err != nil {
			t.Fatalf("Count: %v", err)
		}
		if count != 2 {
			t.Errorf("count after delete = %d, want 2", count)
		}
	})
}

func TestKeywordIndexIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	tdb, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	queries := sqlc.New(tdb.Pool)

	vectorIdx := NewVectorIndex(queries, log.NewNop())
	keywordIdx := NewKeywordIndex(queries, log.NewNop())

	records := []Record{
		{
			ID:       "kw-1",
			Content:  "adb install pushes an apk to the device",
			Metadata: map[string]string{"type": "command"},
		},
		{
			ID:       "kw-2",
			Content:  "adb uninstall removes a package from the device",
			Metadata: map[string]string{"type": "command"},
		},
		{
			ID:       "kw-3",
			Content:  "screen recording with adb shell screenrecord",
			Metadata: map[string]string{"type": "documentation"},
		},
	}
	if _, err := vectorIdx.Insert(ctx, records); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	t.Run("full-text search finds matches", func(t *testing.T) {
		got, err := keywordIdx.Search(ctx, "uninstall package", 5)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 1 || got[0].ID != "kw-2" {
			t.Errorf("got %v, want single kw-2 hit", got)
		}
	})

	t.Run("zero hits is a valid empty result", func(t *testing.T) {
		got, err := keywordIdx.Search(ctx, "bluetooth pairing", 5)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d hits, want 0", len(got))
		}
	})

	t.Run("respects topK", func(t *testing.T) {
		got, err := keywordIdx.Search(ctx, "adb device", 1)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(got) > 1 {
			t.Errorf("got %d hits, want at most 1", len(got))
		}
	})
}
