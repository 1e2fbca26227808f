package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"dupescan/internal/catalog"
	"dupescan/internal/detector"
)

func buildFixtures(t *testing.T) (*catalog.Store, *detector.Detector, []detector.DuplicateGroup) {
	t.Helper()
	created := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	later := created.Add(10 * time.Second)

	store := catalog.NewStore()
	store.Add(&catalog.FileRecord{
		Path: "/originals/IMG_0001.mp4", Size: 10_000_000,
		ModifiedAt: created,
		Video: &catalog.VideoAttributes{
			DurationSeconds: 30.5, Width: 1920, Height: 1080,
			Codec: "h264", BitRate: 5_000_000, CreationTime: &created,
		},
	})
	store.Add(&catalog.FileRecord{
		Path: "/exports/IMG_0001.mp4", Size: 5_000_000,
		ModifiedAt: created,
		Video: &catalog.VideoAttributes{
			DurationSeconds: 30.5, Width: 1280, Height: 720,
			Codec: "h264", BitRate: 2_000_000, CreationTime: &later,
		},
	})

	det := detector.New(store, detector.DefaultTunables(), nil)
	groups := det.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	return store, det, groups
}

func TestBuildSummarizesRun(t *testing.T) {
	store, det, groups := buildFixtures(t)
	rep := Build(context.Background(), store, det, groups, Options{Roots: []string{"/videos"}})

	if rep.RunID == "" {
		t.Fatal("expected a generated run id")
	}
	if rep.Summary.TotalFiles != 2 || rep.Summary.GroupCount != 1 || rep.Summary.DuplicateCount != 1 {
		t.Fatalf("unexpected summary: %+v", rep.Summary)
	}
	// The clean pair scores above threshold, so the duplicate is recoverable.
	if rep.Summary.PotentialSavings != 5_000_000 {
		t.Fatalf("expected 5MB potential savings, got %d", rep.Summary.PotentialSavings)
	}

	group := rep.Groups[0]
	if group.Original.Path != "/originals/IMG_0001.mp4" {
		t.Fatalf("unexpected original: %s", group.Original.Path)
	}
	if group.Original.Action != string(detector.ActionPreserve) {
		t.Fatalf("original must be preserved, got %s", group.Original.Action)
	}
	if len(group.Duplicates) != 1 {
		t.Fatalf("expected 1 duplicate, got %d", len(group.Duplicates))
	}
	dup := group.Duplicates[0]
	if dup.Action != string(detector.ActionSafeDelete) {
		t.Fatalf("expected safe_delete, got %s", dup.Action)
	}
	if dup.Score < 0.7 {
		t.Fatalf("expected passing score, got %v", dup.Score)
	}
	if dup.Resolution != "1280x720" {
		t.Fatalf("unexpected resolution: %s", dup.Resolution)
	}
}

func TestBuildRespectsProvidedRunID(t *testing.T) {
	store, det, groups := buildFixtures(t)
	rep := Build(context.Background(), store, det, groups, Options{RunID: "fixed-id"})
	if rep.RunID != "fixed-id" {
		t.Fatalf("expected fixed run id, got %s", rep.RunID)
	}
}

func TestRenderText(t *testing.T) {
	store, det, groups := buildFixtures(t)
	rep := Build(context.Background(), store, det, groups, Options{})

	var buf bytes.Buffer
	if err := rep.RenderText(&buf); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Duplicate Video Scan Report",
		"/originals/IMG_0001.mp4",
		"/exports/IMG_0001.mp4",
		"safe_delete",
		"Potential savings: 5.0 MB",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	store, det, groups := buildFixtures(t)
	rep := Build(context.Background(), store, det, groups, Options{})

	var buf bytes.Buffer
	if err := rep.RenderJSON(&buf); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode JSON report: %v", err)
	}
	if decoded.Summary.DuplicateCount != 1 || len(decoded.Groups) != 1 {
		t.Fatalf("JSON report did not round-trip: %+v", decoded.Summary)
	}
}

type stubThumbnailer struct{ calls int }

func (s *stubThumbnailer) Thumbnail(ctx context.Context, record *catalog.FileRecord) (string, error) {
	s.calls++
	return "thumbs/" + record.Filename() + ".jpg", nil
}

func TestRenderHTMLIncludesThumbnails(t *testing.T) {
	store, det, groups := buildFixtures(t)
	thumbnailer := &stubThumbnailer{}
	rep := Build(context.Background(), store, det, groups, Options{Thumbnailer: thumbnailer})
	if thumbnailer.calls != 2 {
		t.Fatalf("expected thumbnail per file, got %d calls", thumbnailer.calls)
	}

	var buf bytes.Buffer
	if err := rep.RenderHTML(&buf); err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"IMG_0001.mp4",
		"thumbs/IMG_0001.mp4.jpg",
		"action-safe_delete",
		"recoverable",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("HTML output missing %q", want)
		}
	}
}
