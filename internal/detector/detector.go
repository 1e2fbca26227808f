package detector

import (
	"log/slog"
	"math"
	"sort"

	"dupescan/internal/catalog"
	"dupescan/internal/logging"
)

// Detector runs the duplicate detection pipeline over a populated catalog.
// It never mutates the catalog and holds no external resources, so a single
// Detector may be reused across calls.
type Detector struct {
	store  *catalog.Store
	tun    Tunables
	logger *slog.Logger
}

// New constructs a Detector. A nil logger is replaced with a no-op logger.
func New(store *catalog.Store, tun Tunables, logger *slog.Logger) *Detector {
	return &Detector{
		store:  store,
		tun:    tun,
		logger: logging.NewComponentLogger(logger, "detector"),
	}
}

// Groups finds all duplicate groups in the catalog, ordered by confidence
// descending. Groups with fewer than two duration-agreeing probed members,
// or with no identifiable original, are silently dropped.
func (d *Detector) Groups() []DuplicateGroup {
	var groups []DuplicateGroup
	for _, filename := range d.store.Filenames() {
		members := d.store.ByFilename(filename)
		if len(members) < 2 {
			continue
		}
		probed := make([]*catalog.FileRecord, 0, len(members))
		for _, member := range members {
			if member.HasVideo() {
				probed = append(probed, member)
			}
		}
		if len(probed) < 2 {
			continue
		}

		agreeing := maximalDurationSubset(probed, d.tun.DurationTolerance)
		if len(agreeing) < 2 {
			continue
		}

		original, score := identifyOriginal(agreeing, d.tun)
		if original == "" {
			d.logger.Debug("no identifiable original", "filename", filename, "candidates", len(agreeing))
			continue
		}

		group := DuplicateGroup{
			Filename:        filename,
			Original:        original,
			ConfidenceScore: score,
			Validation:      make(map[string]ValidationResult),
		}
		origRecord := d.store.Get(original)
		for _, record := range agreeing {
			if record.Path == original {
				continue
			}
			group.Duplicates = append(group.Duplicates, record.Path)
			if result, ok := validatePair(origRecord, record, d.tun); ok {
				group.Validation[record.Path] = result
			}
			if isRotatedVariant(origRecord, record, d.tun.AspectRatioTolerance) {
				if group.RotatedVariants == nil {
					group.RotatedVariants = make(map[string]bool)
				}
				group.RotatedVariants[record.Path] = true
			}
		}
		d.logger.Debug("duplicate group",
			"filename", filename,
			"original", original,
			"duplicates", len(group.Duplicates),
			"confidence", score)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].ConfidenceScore > groups[j].ConfidenceScore
	})
	return groups
}

// maximalDurationSubset returns the largest subset of records whose duration
// is within tolerance of some pivot member, checking every member as pivot.
// This approximates a maximum clique in the agrees-within-tolerance graph;
// duration differences are transitive in practice for same-source recordings,
// so the greedy pass is sufficient. Ties keep the earlier pivot, which makes
// the result deterministic for a stable input order.
func maximalDurationSubset(records []*catalog.FileRecord, tolerance float64) []*catalog.FileRecord {
	var best []*catalog.FileRecord
	for _, pivot := range records {
		var subset []*catalog.FileRecord
		for _, candidate := range records {
			if math.Abs(candidate.Video.DurationSeconds-pivot.Video.DurationSeconds) <= tolerance {
				subset = append(subset, candidate)
			}
		}
		if len(subset) > len(best) {
			best = subset
		}
	}
	return best
}

// isRotatedVariant reports whether the duplicate's aspect ratio matches the
// inverse of the original's, within the same relative tolerance used for the
// straight aspect comparison.
func isRotatedVariant(orig, dup *catalog.FileRecord, tolerance float64) bool {
	if !orig.HasVideo() || !dup.HasVideo() {
		return false
	}
	origRatio := orig.Video.AspectRatio()
	dupRatio := dup.Video.AspectRatio()
	if origRatio == 0 || dupRatio == 0 {
		return false
	}
	inverse := 1 / dupRatio
	return math.Abs(origRatio-inverse)/origRatio <= tolerance
}
