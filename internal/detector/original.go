package detector

import (
	"time"

	"dupescan/internal/catalog"
)

const recencyWindow = 30 * 24 * time.Hour

// identifyOriginal scores each duration-agreeing candidate and returns the
// path of the most likely original plus its combined score. The empty string
// is returned only when no candidate can be scored at all (for example when
// every probed resolution is zero).
//
// Scoring uses embedded recording timestamps exclusively; filesystem dates
// are reset by copies and transcodes and would mislead the ranking.
func identifyOriginal(candidates []*catalog.FileRecord, tun Tunables) (string, float64) {
	var maxSize int64
	var maxResolution int64
	var earliest time.Time
	haveTime := false
	for _, candidate := range candidates {
		if candidate.Size > maxSize {
			maxSize = candidate.Size
		}
		if res := candidate.Video.Resolution(); res > maxResolution {
			maxResolution = res
		}
		if ts := candidate.Video.CreationTime; ts != nil {
			if !haveTime || ts.Before(earliest) {
				earliest = *ts
				haveTime = true
			}
		}
	}
	if maxResolution == 0 {
		return "", 0
	}

	bestPath := ""
	bestScore := 0.0
	for _, candidate := range candidates {
		sizeScore := 0.0
		if maxSize > 0 {
			sizeScore = float64(candidate.Size) / float64(maxSize)
		}
		resolutionScore := float64(candidate.Video.Resolution()) / float64(maxResolution)
		// Neutral when no embedded timestamp exists: absence must neither
		// penalize nor reward a candidate.
		timeScore := 0.5
		if ts := candidate.Video.CreationTime; ts != nil && haveTime {
			elapsed := ts.Sub(earliest).Seconds()
			timeScore = clamp01(1 - elapsed/recencyWindow.Seconds())
		}

		score := tun.SizeWeight*sizeScore + tun.ResolutionWeight*resolutionScore + tun.RecencyWeight*timeScore
		if score > bestScore {
			bestScore = score
			bestPath = candidate.Path
		}
	}
	return bestPath, bestScore
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
