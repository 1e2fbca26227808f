package detector

import (
	"math"
	"sort"
)

// commonScaleRatios are width ratios produced by typical device resizers,
// e.g. 1080p to 720p (0.67) and 1080p to 480p (0.44). Diagnostic only.
var commonScaleRatios = []float64{0.67, 0.44}

// ChainAnalysis summarizes how the resolutions in a group scale relative to
// each other. It is informational output for reports and never influences
// action recommendations.
type ChainAnalysis struct {
	Consistent          bool      `json:"consistent"`
	ScaleRatios         []float64 `json:"scale_ratios"`
	MissingCommonRatios []float64 `json:"missing_common_ratios"`
	ResolutionCount     int       `json:"resolution_count"`
}

// ResolutionChain inspects every resolution pair in the group and checks
// that downscaled variants preserve the original's proportions.
func (d *Detector) ResolutionChain(group *DuplicateGroup) ChainAnalysis {
	type dims struct {
		width, height int
	}
	var resolutions []dims
	for _, path := range group.AllFiles() {
		record := d.store.Get(path)
		if !record.HasVideo() {
			continue
		}
		resolutions = append(resolutions, dims{record.Video.Width, record.Video.Height})
	}
	sort.SliceStable(resolutions, func(i, j int) bool {
		return resolutions[i].width*resolutions[i].height > resolutions[j].width*resolutions[j].height
	})

	analysis := ChainAnalysis{Consistent: true, ResolutionCount: len(resolutions)}
	seen := make(map[float64]struct{})
	for i := 0; i < len(resolutions); i++ {
		for j := i + 1; j < len(resolutions); j++ {
			larger, smaller := resolutions[i], resolutions[j]
			if larger.width == 0 || larger.height == 0 {
				continue
			}
			widthRatio := float64(smaller.width) / float64(larger.width)
			heightRatio := float64(smaller.height) / float64(larger.height)
			if widthRatio < 0.1 || widthRatio > 1.0 || math.Abs(widthRatio-heightRatio) >= 0.01 {
				analysis.Consistent = false
				continue
			}
			// Width drives the ratio; common video resolutions are named by width.
			rounded := math.Round(widthRatio*100) / 100
			if _, ok := seen[rounded]; !ok {
				seen[rounded] = struct{}{}
				analysis.ScaleRatios = append(analysis.ScaleRatios, rounded)
			}
		}
	}
	sort.Float64s(analysis.ScaleRatios)

	for _, common := range commonScaleRatios {
		if _, ok := seen[common]; !ok {
			analysis.MissingCommonRatios = append(analysis.MissingCommonRatios, common)
		}
	}
	sort.Float64s(analysis.MissingCommonRatios)
	return analysis
}
