package detector

import "fmt"

// Recommendations derives the final per-file action for every member of the
// group, original included. The ordering encodes a deliberate asymmetry:
// deletion is never recommended while any structural doubt remains (missing
// metadata, aspect mismatch, suspicious timing), even when the numeric score
// alone would clear the threshold.
func (d *Detector) Recommendations(group *DuplicateGroup, findings []EdgeCase) []Recommendation {
	byPath := make(map[string][]EdgeCase, len(findings))
	for _, finding := range findings {
		byPath[finding.Path] = append(byPath[finding.Path], finding)
	}

	var out []Recommendation
	if group.Original != "" {
		out = append(out, Recommendation{
			Path:       group.Original,
			Action:     ActionPreserve,
			Reason:     "identified as the original recording",
			Confidence: 1.0,
		})
	}

	for _, path := range group.Duplicates {
		out = append(out, recommendDuplicate(path, group, byPath[path], d.tun))
	}
	return out
}

func recommendDuplicate(path string, group *DuplicateGroup, findings []EdgeCase, tun Tunables) Recommendation {
	hasHigh := false
	hasAspect := false
	hasMedium := false
	for _, finding := range findings {
		switch {
		case finding.Severity == SeverityHigh:
			hasHigh = true
		case finding.Type == EdgeCaseAspectRatio:
			hasAspect = true
		}
		if finding.Severity == SeverityMedium {
			hasMedium = true
		}
	}

	switch {
	case hasHigh:
		return Recommendation{
			Path:       path,
			Action:     ActionManualReview,
			Reason:     "high severity issue detected",
			Confidence: 0.9,
		}
	case hasAspect:
		// Aspect mismatches are never auto-deleted even at medium severity;
		// they can indicate cropped or different content.
		return Recommendation{
			Path:       path,
			Action:     ActionManualReview,
			Reason:     "aspect ratio differs from the original",
			Confidence: 0.8,
		}
	case hasMedium:
		return Recommendation{
			Path:       path,
			Action:     ActionVerify,
			Reason:     "quality metrics deviate from the expected scaling",
			Confidence: 0.7,
		}
	}

	validation, ok := group.Validation[path]
	if !ok {
		return Recommendation{
			Path:       path,
			Action:     ActionVerify,
			Reason:     "no validation result available",
			Confidence: 0.5,
		}
	}
	if validation.OverallScore >= tun.MinConfidenceScore {
		return Recommendation{
			Path:       path,
			Action:     ActionSafeDelete,
			Reason:     fmt.Sprintf("validated duplicate of %s (%s)", group.Original, validation.Reason),
			Confidence: validation.OverallScore,
		}
	}
	return Recommendation{
		Path:       path,
		Action:     ActionVerify,
		Reason:     fmt.Sprintf("validation score below threshold (%s)", validation.Reason),
		Confidence: validation.OverallScore,
	}
}
