package detector

// EdgeCaseType labels the anomaly classes the classifier can report.
type EdgeCaseType string

const (
	EdgeCaseDurationMismatch EdgeCaseType = "duration_mismatch"
	EdgeCaseAspectRatio      EdgeCaseType = "aspect_ratio"
	EdgeCaseResolution       EdgeCaseType = "resolution"
	EdgeCaseQuality          EdgeCaseType = "quality"
	EdgeCaseTimestamp        EdgeCaseType = "timestamp"
	EdgeCaseMetadata         EdgeCaseType = "metadata"
)

// Severity ranks how strongly an edge case should influence the recommended
// action.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Action is the recommended disposition for a file in a duplicate group.
type Action string

const (
	ActionSafeDelete   Action = "safe_delete"
	ActionManualReview Action = "manual_review"
	ActionPreserve     Action = "preserve"
	ActionVerify       Action = "verify"
)

// ValidationResult records the outcome of the pairwise checks between the
// group original and one duplicate.
type ValidationResult struct {
	AspectRatioMatch     bool    `json:"aspect_ratio_match"`
	TimestampValid       bool    `json:"timestamp_valid"`
	SizeCorrelationValid bool    `json:"size_correlation_valid"`
	BitrateValid         bool    `json:"bitrate_valid"`
	OverallScore         float64 `json:"overall_score"`
	Reason               string  `json:"reason"`
	// TimestampCompared reports whether both sides carried an embedded
	// creation time, i.e. whether TimestampValid reflects a real comparison.
	TimestampCompared bool `json:"timestamp_compared"`
}

// DuplicateGroup is the externally visible result of grouping and scoring
// one filename cluster. Original is empty only in the degenerate case where
// no candidate could be scored.
type DuplicateGroup struct {
	Filename        string                      `json:"filename"`
	Original        string                      `json:"original"`
	Duplicates      []string                    `json:"duplicates"`
	ConfidenceScore float64                     `json:"confidence_score"`
	Validation      map[string]ValidationResult `json:"validation,omitempty"`
	// RotatedVariants annotates duplicates whose aspect ratio matches the
	// inverse of the original's, suggesting a width/height swapped copy.
	// Annotation only; rotation never changes any score.
	RotatedVariants map[string]bool `json:"rotated_variants,omitempty"`
}

// AllFiles returns the original followed by the duplicates.
func (g *DuplicateGroup) AllFiles() []string {
	if g.Original == "" {
		return append([]string(nil), g.Duplicates...)
	}
	out := make([]string, 0, len(g.Duplicates)+1)
	out = append(out, g.Original)
	return append(out, g.Duplicates...)
}

// EdgeCase is one detected anomaly for one file.
type EdgeCase struct {
	Path           string       `json:"path"`
	Type           EdgeCaseType `json:"type"`
	Severity       Severity     `json:"severity"`
	Details        string       `json:"details"`
	Recommendation string       `json:"recommendation"`
}

// Recommendation is the final per-file verdict derived from the edge cases
// and the validation score.
type Recommendation struct {
	Path       string  `json:"path"`
	Action     Action  `json:"action"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}
