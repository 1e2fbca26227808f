package detector

// Default policy constants. These are starting points, not guarantees; the
// config layer exposes every one of them so alternate weightings can be
// validated without code changes.
const (
	// DefaultDurationTolerance is the inclusive maximum duration difference
	// (seconds) for two files to be considered the same recording.
	DefaultDurationTolerance = 1.0
	// DefaultAspectRatioTolerance is the relative aspect ratio difference
	// allowed before a pair is flagged (1%).
	DefaultAspectRatioTolerance = 0.01
	// DefaultSizeRatioTolerance allows 30% deviation from the pixel-scaled
	// expected file size; compression efficiency varies that much in practice.
	DefaultSizeRatioTolerance = 0.3
	// DefaultBitrateRatioTolerance mirrors the size tolerance for bitrate.
	DefaultBitrateRatioTolerance = 0.3
	// DefaultMinConfidenceScore is the validation score required before a
	// duplicate is recommended for deletion.
	DefaultMinConfidenceScore = 0.7
	// DefaultTimestampSkewSeconds is the maximum embedded-timestamp gap for a
	// pair to still look like the same recording.
	DefaultTimestampSkewSeconds = 60
	// DefaultTimestampRejectSeconds disqualifies a pair outright: same-name,
	// same-duration files recorded more than a day apart are different content.
	DefaultTimestampRejectSeconds = 86400
)

// Original-identification weights. File size is the most reliable quality
// proxy surviving re-encoding, ahead of resolution (some resizers keep the
// frame size but drop bitrate) and embedded time (often copied, not always
// present).
const (
	DefaultSizeWeight       = 0.6
	DefaultResolutionWeight = 0.3
	DefaultRecencyWeight    = 0.1
)

// Pairwise validation weights, applied per passing check.
const (
	DefaultAspectWeight          = 0.3
	DefaultTimestampWeight       = 0.4
	DefaultSizeCorrelationWeight = 0.15
	DefaultBitrateWeight         = 0.15
)

// Tunables collects every tolerance and weight the engine consults.
type Tunables struct {
	DurationTolerance      float64
	AspectRatioTolerance   float64
	SizeRatioTolerance     float64
	BitrateRatioTolerance  float64
	MinConfidenceScore     float64
	TimestampSkewSeconds   float64
	TimestampRejectSeconds float64

	SizeWeight       float64
	ResolutionWeight float64
	RecencyWeight    float64

	AspectWeight          float64
	TimestampWeight       float64
	SizeCorrelationWeight float64
	BitrateWeight         float64
}

// DefaultTunables returns the canonical detection policy.
func DefaultTunables() Tunables {
	return Tunables{
		DurationTolerance:      DefaultDurationTolerance,
		AspectRatioTolerance:   DefaultAspectRatioTolerance,
		SizeRatioTolerance:     DefaultSizeRatioTolerance,
		BitrateRatioTolerance:  DefaultBitrateRatioTolerance,
		MinConfidenceScore:     DefaultMinConfidenceScore,
		TimestampSkewSeconds:   DefaultTimestampSkewSeconds,
		TimestampRejectSeconds: DefaultTimestampRejectSeconds,
		SizeWeight:             DefaultSizeWeight,
		ResolutionWeight:       DefaultResolutionWeight,
		RecencyWeight:          DefaultRecencyWeight,
		AspectWeight:           DefaultAspectWeight,
		TimestampWeight:        DefaultTimestampWeight,
		SizeCorrelationWeight:  DefaultSizeCorrelationWeight,
		BitrateWeight:          DefaultBitrateWeight,
	}
}
