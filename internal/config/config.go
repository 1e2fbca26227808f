package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"dupescan/internal/detector"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CacheDir     string `toml:"cache_dir"`
	LogDir       string `toml:"log_dir"`
	ReportDir    string `toml:"report_dir"`
	ThumbnailDir string `toml:"thumbnail_dir"`
}

// Scanner contains configuration for filesystem discovery and probing.
type Scanner struct {
	Workers    int      `toml:"workers"`
	Extensions []string `toml:"extensions"`
}

// Detector contains every tolerance and weight the detection engine consults.
// Zero values fall back to the repository defaults during normalization.
type Detector struct {
	DurationTolerance      float64 `toml:"duration_tolerance"`
	AspectRatioTolerance   float64 `toml:"aspect_ratio_tolerance"`
	SizeRatioTolerance     float64 `toml:"size_ratio_tolerance"`
	BitrateRatioTolerance  float64 `toml:"bitrate_ratio_tolerance"`
	MinConfidenceScore     float64 `toml:"min_confidence_score"`
	TimestampSkewSeconds   float64 `toml:"timestamp_skew_seconds"`
	TimestampRejectSeconds float64 `toml:"timestamp_reject_seconds"`

	SizeWeight       float64 `toml:"size_weight"`
	ResolutionWeight float64 `toml:"resolution_weight"`
	RecencyWeight    float64 `toml:"recency_weight"`

	AspectWeight          float64 `toml:"aspect_weight"`
	TimestampWeight       float64 `toml:"timestamp_weight"`
	SizeCorrelationWeight float64 `toml:"size_correlation_weight"`
	BitrateWeight         float64 `toml:"bitrate_weight"`
}

// Cache contains configuration for the probe metadata cache.
type Cache struct {
	Enabled    bool `toml:"enabled"`
	FlushEvery int  `toml:"flush_every"`
}

// Report contains configuration for report rendering.
type Report struct {
	Format          string `toml:"format"`
	Thumbnails      bool   `toml:"thumbnails"`
	ThumbnailWidth  int    `toml:"thumbnail_width"`
	ThumbnailHeight int    `toml:"thumbnail_height"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dupescan.
//
// Configuration sections by subsystem:
//   - Paths: cache, log, report, and thumbnail directories
//   - Scanner: discovery worker count and recognized extensions
//   - Detector: detection tolerances and scoring weights
//   - Cache: probe metadata cache behavior
//   - Report: default output format and thumbnail settings
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Scanner  Scanner  `toml:"scanner"`
	Detector Detector `toml:"detector"`
	Cache    Cache    `toml:"cache"`
	Report   Report   `toml:"report"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dupescan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dupescan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a scan run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir, c.Paths.ReportDir, c.Paths.ThumbnailDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable name used for metadata extraction.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// FFmpegBinary returns the ffmpeg executable name used for thumbnail extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// Tunables maps the detector section onto the engine's tunables struct.
func (c *Config) Tunables() detector.Tunables {
	d := c.Detector
	return detector.Tunables{
		DurationTolerance:      d.DurationTolerance,
		AspectRatioTolerance:   d.AspectRatioTolerance,
		SizeRatioTolerance:     d.SizeRatioTolerance,
		BitrateRatioTolerance:  d.BitrateRatioTolerance,
		MinConfidenceScore:     d.MinConfidenceScore,
		TimestampSkewSeconds:   d.TimestampSkewSeconds,
		TimestampRejectSeconds: d.TimestampRejectSeconds,
		SizeWeight:             d.SizeWeight,
		ResolutionWeight:       d.ResolutionWeight,
		RecencyWeight:          d.RecencyWeight,
		AspectWeight:           d.AspectWeight,
		TimestampWeight:        d.TimestampWeight,
		SizeCorrelationWeight:  d.SizeCorrelationWeight,
		BitrateWeight:          d.BitrateWeight,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
