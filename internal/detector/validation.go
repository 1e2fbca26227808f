package detector

import (
	"fmt"
	"math"
	"strings"

	"dupescan/internal/catalog"
)

// validatePair runs the four independent relationship checks between the
// group original and one duplicate. The second return value is false when
// either side lacks probed metadata, in which case no result is emitted.
func validatePair(orig, dup *catalog.FileRecord, tun Tunables) (ValidationResult, bool) {
	if !orig.HasVideo() || !dup.HasVideo() {
		return ValidationResult{}, false
	}

	result := ValidationResult{
		AspectRatioMatch:     aspectRatioMatch(orig.Video, dup.Video, tun.AspectRatioTolerance),
		SizeCorrelationValid: correlationValid(orig.Size, dup.Size, orig.Video, dup.Video, tun.SizeRatioTolerance),
		BitrateValid:         correlationValid(orig.Video.BitRate, dup.Video.BitRate, orig.Video, dup.Video, tun.BitrateRatioTolerance),
	}

	// Embedded recording timestamps only. Filesystem dates change on every
	// copy and would produce false verdicts in both directions.
	result.TimestampValid = true
	disqualified := false
	var timeDiff float64
	if orig.Video.CreationTime != nil && dup.Video.CreationTime != nil {
		result.TimestampCompared = true
		timeDiff = math.Abs(orig.Video.CreationTime.Sub(*dup.Video.CreationTime).Seconds())
		result.TimestampValid = timeDiff <= tun.TimestampSkewSeconds
		disqualified = !result.TimestampValid && timeDiff > tun.TimestampRejectSeconds
	}

	if disqualified {
		// A same-name, same-duration pair recorded more than a day apart is
		// categorically different content; no other evidence can rescue it.
		result.OverallScore = 0
	} else {
		score := 0.0
		if result.AspectRatioMatch {
			score += tun.AspectWeight
		}
		if result.TimestampValid {
			score += tun.TimestampWeight
		}
		if result.SizeCorrelationValid {
			score += tun.SizeCorrelationWeight
		}
		if result.BitrateValid {
			score += tun.BitrateWeight
		}
		result.OverallScore = score
	}

	var reasons []string
	if !result.AspectRatioMatch {
		reasons = append(reasons, "aspect ratio mismatch")
	}
	if !result.TimestampValid {
		if disqualified {
			reasons = append(reasons, fmt.Sprintf("disqualifying timestamp difference (%.1f days apart)", timeDiff/86400))
		} else {
			reasons = append(reasons, "suspicious timestamp")
		}
	}
	if !result.SizeCorrelationValid {
		reasons = append(reasons, "unexpected file size")
	}
	if !result.BitrateValid {
		reasons = append(reasons, "unexpected bitrate")
	}
	if len(reasons) == 0 {
		result.Reason = "all checks passed"
	} else {
		result.Reason = strings.Join(reasons, "; ")
	}
	return result, true
}

func aspectRatioMatch(orig, dup *catalog.VideoAttributes, tolerance float64) bool {
	origRatio := orig.AspectRatio()
	dupRatio := dup.AspectRatio()
	if origRatio == 0 || dupRatio == 0 {
		// Unknown dimensions: treat as matching rather than flagging files
		// the prober could not fully describe.
		return true
	}
	return math.Abs(origRatio-dupRatio)/origRatio <= tolerance
}

// correlationValid checks that the duplicate's measured value (file size or
// bitrate) scales with its pixel count relative to the original. A zero or
// unknown value on either side skips the check as valid.
func correlationValid(origValue, dupValue int64, origVideo, dupVideo *catalog.VideoAttributes, tolerance float64) bool {
	origPixels := origVideo.Resolution()
	dupPixels := dupVideo.Resolution()
	if origValue <= 0 || dupValue <= 0 || origPixels == 0 || dupPixels == 0 {
		return true
	}
	expected := float64(origValue) * float64(dupPixels) / float64(origPixels)
	if expected <= 0 {
		return true
	}
	return math.Abs(float64(dupValue)-expected)/expected <= tolerance
}
