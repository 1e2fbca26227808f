package metacache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dupescan/internal/catalog"
)

func openTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAttributes() *catalog.VideoAttributes {
	created := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	return &catalog.VideoAttributes{
		DurationSeconds: 31.5,
		Width:           1920,
		Height:          1080,
		Codec:           "h264",
		BitRate:         5_000_000,
		FPS:             29.97,
		CreationTime:    &created,
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{})

	if err := store.Put(ctx, "/videos/a.mp4", 1000, sampleAttributes()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	video, hit, err := store.Get(ctx, "/videos/a.mp4", 1000)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || video == nil {
		t.Fatalf("expected cache hit with attributes, got hit=%v video=%v", hit, video)
	}
	if video.Width != 1920 || video.Codec != "h264" {
		t.Fatalf("attributes did not round-trip: %+v", video)
	}
	if video.CreationTime == nil || !video.CreationTime.Equal(time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("creation time did not round-trip: %v", video.CreationTime)
	}
}

func TestGetMissesOnChangedMtime(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{})

	if err := store.Put(ctx, "/videos/a.mp4", 1000, sampleAttributes()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if _, hit, err := store.Get(ctx, "/videos/a.mp4", 2000); err != nil || hit {
		t.Fatalf("expected miss for changed mtime, got hit=%v err=%v", hit, err)
	}
	if _, hit, err := store.Get(ctx, "/videos/other.mp4", 1000); err != nil || hit {
		t.Fatalf("expected miss for unknown path, got hit=%v err=%v", hit, err)
	}
}

func TestNegativeEntriesAreHits(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{})

	if err := store.Put(ctx, "/videos/broken.mp4", 1000, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	video, hit, err := store.Get(ctx, "/videos/broken.mp4", 1000)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || video != nil {
		t.Fatalf("expected negative hit, got hit=%v video=%v", hit, video)
	}
}

func TestPendingEntriesVisibleBeforeFlush(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{FlushEvery: 100})

	if err := store.Put(ctx, "/videos/a.mp4", 1000, sampleAttributes()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	video, hit, err := store.Get(ctx, "/videos/a.mp4", 1000)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || video == nil {
		t.Fatal("buffered entry must be visible to Get before flush")
	}
}

func TestBatchFlushThreshold(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{FlushEvery: 3})

	paths := []string{"/v/a.mp4", "/v/b.mp4", "/v/c.mp4"}
	for _, path := range paths {
		if err := store.Put(ctx, path, 1000, sampleAttributes()); err != nil {
			t.Fatalf("Put %s: %v", path, err)
		}
	}

	// The third put crossed the threshold, so everything is on disk now.
	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 3 {
		t.Fatalf("expected 3 committed entries, got %d", stats.Entries)
	}
}

func TestCorruptDatabaseIsRecreated(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "metadata.db")
	if err := os.WriteFile(dbPath, []byte("this is not a sqlite database"), 0o644); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	store, err := Open(dir, Options{})
	if err != nil {
		t.Fatalf("Open should recover from corruption: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Put(ctx, "/videos/a.mp4", 1000, sampleAttributes()); err != nil {
		t.Fatalf("Put after recovery: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush after recovery: %v", err)
	}
	if _, hit, err := store.Get(ctx, "/videos/a.mp4", 1000); err != nil || !hit {
		t.Fatalf("expected hit after recovery, got hit=%v err=%v", hit, err)
	}
}

func TestClearAndStats(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, Options{})

	if err := store.Put(ctx, "/v/a.mp4", 1000, sampleAttributes()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "/v/b.mp4", 1000, nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Entries != 2 || stats.Negative != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SizeBytes == 0 {
		t.Fatal("expected a nonzero database size")
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats after clear: %v", err)
	}
	if stats.Entries != 0 {
		t.Fatalf("expected empty cache after clear, got %d entries", stats.Entries)
	}
}
