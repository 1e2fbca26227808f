package detector

import (
	"testing"
	"time"
)

func detect(t *testing.T, specs ...spec) (*Detector, DuplicateGroup) {
	t.Helper()
	store := buildStore(specs...)
	det := New(store, DefaultTunables(), nil)
	groups := det.Groups()
	if len(groups) != 1 {
		t.Fatalf("expected exactly 1 group, got %d", len(groups))
	}
	return det, groups[0]
}

func findRecommendation(t *testing.T, recs []Recommendation, path string) Recommendation {
	t.Helper()
	for _, rec := range recs {
		if rec.Path == path {
			return rec
		}
	}
	t.Fatalf("no recommendation for %s in %+v", path, recs)
	return Recommendation{}
}

func TestCleanDuplicateIsSafeDelete(t *testing.T) {
	det, group := detect(t,
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000, created: ts(0)},
		spec{path: "/d/IMG.mp4", size: 5_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 2_000_000, created: ts(10 * time.Second)},
	)

	findings := det.EdgeCases(&group)
	if len(findings) != 0 {
		t.Fatalf("clean pair should raise no findings: %+v", findings)
	}

	recs := det.Recommendations(&group, findings)
	orig := findRecommendation(t, recs, "/o/IMG.mp4")
	if orig.Action != ActionPreserve || orig.Confidence != 1.0 {
		t.Fatalf("original must always be preserved: %+v", orig)
	}
	dup := findRecommendation(t, recs, "/d/IMG.mp4")
	if dup.Action != ActionSafeDelete {
		t.Fatalf("expected safe delete, got %+v", dup)
	}
	if dup.Confidence < 0.7 {
		t.Fatalf("safe delete confidence must carry the validation score: %+v", dup)
	}
}

func TestAspectMismatchForcesManualReview(t *testing.T) {
	// Numerically the pair can still score above the deletion threshold, but
	// an aspect change may mean cropped or different content.
	det, group := detect(t,
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000, created: ts(0)},
		spec{path: "/d/IMG.mp4", size: 5_900_000, width: 1280, height: 960, duration: 30.5, bitrate: 2_700_000, created: ts(10 * time.Second)},
	)

	findings := det.EdgeCases(&group)
	hasAspect := false
	for _, finding := range findings {
		if finding.Type == EdgeCaseAspectRatio {
			hasAspect = true
			if finding.Severity != SeverityMedium {
				t.Fatalf("aspect finding should be medium severity: %+v", finding)
			}
		}
	}
	if !hasAspect {
		t.Fatalf("expected an aspect ratio finding: %+v", findings)
	}

	dup := findRecommendation(t, det.Recommendations(&group, findings), "/d/IMG.mp4")
	if dup.Action != ActionManualReview {
		t.Fatalf("aspect mismatch must force manual review, got %+v", dup)
	}
	if dup.Confidence != 0.8 {
		t.Fatalf("expected confidence 0.8, got %v", dup.Confidence)
	}
}

func TestDisqualifiedTimestampForcesManualReview(t *testing.T) {
	det, group := detect(t,
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000, created: ts(0)},
		spec{path: "/d/IMG.mp4", size: 5_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 2_000_000, created: ts(48 * time.Hour)},
	)

	if score := group.Validation["/d/IMG.mp4"].OverallScore; score != 0 {
		t.Fatalf("expected disqualified score 0, got %v", score)
	}

	findings := det.EdgeCases(&group)
	hasTimestamp := false
	for _, finding := range findings {
		if finding.Type == EdgeCaseTimestamp {
			hasTimestamp = true
			if finding.Severity != SeverityHigh {
				t.Fatalf("timestamp finding should be high severity: %+v", finding)
			}
		}
	}
	if !hasTimestamp {
		t.Fatalf("expected a timestamp finding: %+v", findings)
	}

	dup := findRecommendation(t, det.Recommendations(&group, findings), "/d/IMG.mp4")
	if dup.Action != ActionManualReview || dup.Confidence != 0.9 {
		t.Fatalf("high severity finding must force manual review at 0.9: %+v", dup)
	}
}

func TestMissingMetadataIsTerminalFinding(t *testing.T) {
	// The unprobed file cannot join the duration subset, so stage a group by
	// hand: detection found two probed members and a third file of the same
	// name exists without metadata.
	store := buildStore(
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000},
		spec{path: "/d/IMG.mp4", size: 5_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 2_000_000},
		spec{path: "/x/IMG.mp4", size: 4_000_000, noVideo: true},
	)
	det := New(store, DefaultTunables(), nil)
	group := DuplicateGroup{
		Filename:   "IMG.mp4",
		Original:   "/o/IMG.mp4",
		Duplicates: []string{"/d/IMG.mp4", "/x/IMG.mp4"},
		Validation: map[string]ValidationResult{},
	}

	findings := det.EdgeCases(&group)
	var forMissing []EdgeCase
	for _, finding := range findings {
		if finding.Path == "/x/IMG.mp4" {
			forMissing = append(forMissing, finding)
		}
	}
	if len(forMissing) != 1 {
		t.Fatalf("missing metadata must yield exactly one finding: %+v", forMissing)
	}
	if forMissing[0].Type != EdgeCaseMetadata || forMissing[0].Severity != SeverityHigh {
		t.Fatalf("expected high severity metadata finding: %+v", forMissing[0])
	}

	rec := findRecommendation(t, det.Recommendations(&group, findings), "/x/IMG.mp4")
	if rec.Action != ActionManualReview {
		t.Fatalf("unprobed duplicate must go to manual review: %+v", rec)
	}
}

func TestQualityFindingDowngradesToVerify(t *testing.T) {
	// Byte-equal copy at lower resolution: size and bitrate correlations fail
	// (medium severity), nothing high fires, so the file lands in verify.
	det, group := detect(t,
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000},
		spec{path: "/d/IMG.mp4", size: 10_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 5_000_000},
	)

	findings := det.EdgeCases(&group)
	dup := findRecommendation(t, det.Recommendations(&group, findings), "/d/IMG.mp4")
	if dup.Action != ActionVerify || dup.Confidence != 0.7 {
		t.Fatalf("quality finding should downgrade to verify at 0.7: %+v", dup)
	}
}

func TestLowScoreWithoutFindingsIsVerify(t *testing.T) {
	store := buildStore(
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000},
		spec{path: "/d/IMG.mp4", size: 5_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 2_000_000},
	)
	det := New(store, DefaultTunables(), nil)
	group := DuplicateGroup{
		Filename:   "IMG.mp4",
		Original:   "/o/IMG.mp4",
		Duplicates: []string{"/d/IMG.mp4"},
		Validation: map[string]ValidationResult{
			"/d/IMG.mp4": {
				AspectRatioMatch:     true,
				TimestampValid:       true,
				SizeCorrelationValid: true,
				BitrateValid:         true,
				OverallScore:         0.55,
				Reason:               "all checks passed",
			},
		},
	}

	rec := findRecommendation(t, det.Recommendations(&group, det.EdgeCases(&group)), "/d/IMG.mp4")
	if rec.Action != ActionVerify {
		t.Fatalf("sub-threshold score must map to verify: %+v", rec)
	}
	if rec.Confidence != 0.55 {
		t.Fatalf("verify confidence should carry the score: %+v", rec)
	}
}

func TestResolutionChainDiagnostic(t *testing.T) {
	det, group := detect(t,
		spec{path: "/o/IMG.mp4", size: 10_000_000, width: 1920, height: 1080, duration: 30.5, bitrate: 5_000_000},
		spec{path: "/d/IMG.mp4", size: 5_000_000, width: 1280, height: 720, duration: 30.5, bitrate: 2_200_000},
	)

	chain := det.ResolutionChain(&group)
	if !chain.Consistent {
		t.Fatalf("proportional downscale should be consistent: %+v", chain)
	}
	if chain.ResolutionCount != 2 {
		t.Fatalf("expected 2 resolutions, got %d", chain.ResolutionCount)
	}
	if len(chain.ScaleRatios) != 1 || chain.ScaleRatios[0] != 0.67 {
		t.Fatalf("expected the 0.67 ratio, got %+v", chain.ScaleRatios)
	}
}
