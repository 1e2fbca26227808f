package detector

import (
	"fmt"
	"math"
)

// EdgeCases evaluates every duplicate in the group and returns the anomalies
// found, in evaluation order. A duplicate without probed metadata terminates
// its own evaluation after the metadata finding; nothing else can be said
// about it.
func (d *Detector) EdgeCases(group *DuplicateGroup) []EdgeCase {
	var findings []EdgeCase
	origRecord := d.store.Get(group.Original)
	origLabel := "unknown"
	if origRecord.HasVideo() {
		origLabel = origRecord.Video.ResolutionLabel()
	}

	for _, path := range group.Duplicates {
		record := d.store.Get(path)
		if record == nil || !record.HasVideo() {
			findings = append(findings, EdgeCase{
				Path:           path,
				Type:           EdgeCaseMetadata,
				Severity:       SeverityHigh,
				Details:        "no video metadata could be probed for this file",
				Recommendation: "inspect the file manually before considering deletion",
			})
			continue
		}

		validation, validated := group.Validation[path]

		if validated && !validation.AspectRatioMatch {
			findings = append(findings, EdgeCase{
				Path:           path,
				Type:           EdgeCaseAspectRatio,
				Severity:       SeverityMedium,
				Details:        fmt.Sprintf("aspect ratio %s differs from original %s", record.Video.ResolutionLabel(), origLabel),
				Recommendation: "compare visually; the file may be cropped or different content",
			})
		}

		// TimestampValid is only false when both sides carried an embedded
		// timestamp, so a failed comparison is always a real signal.
		if validated && !validation.TimestampValid {
			findings = append(findings, EdgeCase{
				Path:           path,
				Type:           EdgeCaseTimestamp,
				Severity:       SeverityHigh,
				Details:        "embedded recording timestamps are too far apart for the same recording",
				Recommendation: "verify both files are actually the same recording",
			})
		}

		if validated && (!validation.BitrateValid || !validation.SizeCorrelationValid) {
			findings = append(findings, EdgeCase{
				Path:           path,
				Type:           EdgeCaseQuality,
				Severity:       SeverityMedium,
				Details:        "file size or bitrate does not scale with resolution as expected",
				Recommendation: "check playback quality before deleting",
			})
		}

		// Grouping already filtered by duration; this catches metadata drift
		// between grouping and classification.
		if origRecord.HasVideo() {
			diff := math.Abs(record.Video.DurationSeconds - origRecord.Video.DurationSeconds)
			if diff > d.tun.DurationTolerance {
				findings = append(findings, EdgeCase{
					Path:           path,
					Type:           EdgeCaseDurationMismatch,
					Severity:       SeverityHigh,
					Details:        fmt.Sprintf("duration differs from original by %.2fs", diff),
					Recommendation: "treat as distinct content until verified",
				})
			}
		}
	}
	return findings
}
