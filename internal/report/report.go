package report

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"dupescan/internal/catalog"
	"dupescan/internal/detector"
)

// Thumbnailer produces a preview image path for a file record. Implemented
// by thumbs.Generator; reports work without one.
type Thumbnailer interface {
	Thumbnail(ctx context.Context, record *catalog.FileRecord) (string, error)
}

// FileInfo describes one file inside a group.
type FileInfo struct {
	Path            string  `json:"path"`
	Size            int64   `json:"size"`
	Resolution      string  `json:"resolution"`
	DurationSeconds float64 `json:"duration_seconds"`
	Score           float64 `json:"score,omitempty"`
	ScoreReason     string  `json:"score_reason,omitempty"`
	Action          string  `json:"action"`
	ActionReason    string  `json:"action_reason"`
	Confidence      float64 `json:"confidence"`
	Rotated         bool    `json:"rotated,omitempty"`
	Thumbnail       string  `json:"thumbnail,omitempty"`
}

// Group is the per-filename section of a report.
type Group struct {
	Filename         string                 `json:"filename"`
	Confidence       float64                `json:"confidence"`
	Original         FileInfo               `json:"original"`
	Duplicates       []FileInfo             `json:"duplicates"`
	Findings         []detector.EdgeCase    `json:"findings,omitempty"`
	Chain            detector.ChainAnalysis `json:"resolution_chain"`
	PotentialSavings int64                  `json:"potential_savings"`
}

// Summary aggregates the run.
type Summary struct {
	TotalFiles       int   `json:"total_files"`
	GroupCount       int   `json:"group_count"`
	DuplicateCount   int   `json:"duplicate_count"`
	DuplicateBytes   int64 `json:"duplicate_bytes"`
	PotentialSavings int64 `json:"potential_savings"`
}

// Report is the full serializable output of one scan run.
type Report struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Roots       []string  `json:"roots,omitempty"`
	Summary     Summary   `json:"summary"`
	Groups      []Group   `json:"groups"`
}

// Options adjusts report assembly.
type Options struct {
	// RunID identifies the scan run; a fresh UUID is generated when empty.
	RunID string
	// Roots records the scanned directories for display.
	Roots []string
	// Thumbnailer, when set, attaches preview images to every file entry.
	// Thumbnail failures are silently skipped.
	Thumbnailer Thumbnailer
}

// Build assembles a report from detection results.
func Build(ctx context.Context, store *catalog.Store, det *detector.Detector, groups []detector.DuplicateGroup, opts Options) *Report {
	runID := strings.TrimSpace(opts.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}

	rep := &Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Roots:       opts.Roots,
		Summary:     Summary{TotalFiles: store.Len(), GroupCount: len(groups)},
		Groups:      make([]Group, 0, len(groups)),
	}

	for i := range groups {
		group := &groups[i]
		findings := det.EdgeCases(group)
		recommendations := det.Recommendations(group, findings)
		byPath := make(map[string]detector.Recommendation, len(recommendations))
		for _, rec := range recommendations {
			byPath[rec.Path] = rec
		}

		section := Group{
			Filename:   group.Filename,
			Confidence: group.ConfidenceScore,
			Original:   fileInfo(ctx, store, group.Original, byPath, opts.Thumbnailer),
			Findings:   findings,
			Chain:      det.ResolutionChain(group),
		}
		for _, path := range group.Duplicates {
			info := fileInfo(ctx, store, path, byPath, opts.Thumbnailer)
			if validation, ok := group.Validation[path]; ok {
				info.Score = validation.OverallScore
				info.ScoreReason = validation.Reason
			}
			info.Rotated = group.RotatedVariants[path]
			section.Duplicates = append(section.Duplicates, info)

			rep.Summary.DuplicateCount++
			rep.Summary.DuplicateBytes += info.Size
			if info.Action == string(detector.ActionSafeDelete) {
				section.PotentialSavings += info.Size
			}
		}
		rep.Summary.PotentialSavings += section.PotentialSavings
		rep.Groups = append(rep.Groups, section)
	}
	return rep
}

func fileInfo(ctx context.Context, store *catalog.Store, path string, recommendations map[string]detector.Recommendation, thumbnailer Thumbnailer) FileInfo {
	info := FileInfo{Path: path, Resolution: "unknown"}
	record := store.Get(path)
	if record != nil {
		info.Size = record.Size
		if record.HasVideo() {
			info.Resolution = record.Video.ResolutionLabel()
			info.DurationSeconds = record.Video.DurationSeconds
		}
		if thumbnailer != nil {
			if thumb, err := thumbnailer.Thumbnail(ctx, record); err == nil {
				info.Thumbnail = thumb
			}
		}
	}
	if rec, ok := recommendations[path]; ok {
		info.Action = string(rec.Action)
		info.ActionReason = rec.Reason
		info.Confidence = rec.Confidence
	}
	return info
}
