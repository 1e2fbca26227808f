package config

import "dupescan/internal/detector"

const (
	defaultCacheDir        = "~/.cache/dupescan"
	defaultLogDir          = "~/.local/share/dupescan/logs"
	defaultReportDir       = "~/.local/share/dupescan/reports"
	defaultThumbnailDir    = "~/.cache/dupescan/thumbnails"
	defaultScannerWorkers  = 4
	defaultCacheFlushEvery = 64
	defaultReportFormat    = "table"
	defaultThumbnailWidth  = 150
	defaultThumbnailHeight = 100
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

func defaultExtensions() []string {
	return []string{".mp4", ".m4v", ".mov", ".mkv", ".avi", ".webm"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	tun := detector.DefaultTunables()
	return Config{
		Paths: Paths{
			CacheDir:     defaultCacheDir,
			LogDir:       defaultLogDir,
			ReportDir:    defaultReportDir,
			ThumbnailDir: defaultThumbnailDir,
		},
		Scanner: Scanner{
			Workers:    defaultScannerWorkers,
			Extensions: defaultExtensions(),
		},
		Detector: Detector{
			DurationTolerance:      tun.DurationTolerance,
			AspectRatioTolerance:   tun.AspectRatioTolerance,
			SizeRatioTolerance:     tun.SizeRatioTolerance,
			BitrateRatioTolerance:  tun.BitrateRatioTolerance,
			MinConfidenceScore:     tun.MinConfidenceScore,
			TimestampSkewSeconds:   tun.TimestampSkewSeconds,
			TimestampRejectSeconds: tun.TimestampRejectSeconds,
			SizeWeight:             tun.SizeWeight,
			ResolutionWeight:       tun.ResolutionWeight,
			RecencyWeight:          tun.RecencyWeight,
			AspectWeight:           tun.AspectWeight,
			TimestampWeight:        tun.TimestampWeight,
			SizeCorrelationWeight:  tun.SizeCorrelationWeight,
			BitrateWeight:          tun.BitrateWeight,
		},
		Cache: Cache{
			Enabled:    true,
			FlushEvery: defaultCacheFlushEvery,
		},
		Report: Report{
			Format:          defaultReportFormat,
			ThumbnailWidth:  defaultThumbnailWidth,
			ThumbnailHeight: defaultThumbnailHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
