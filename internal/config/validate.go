package config

import (
	"errors"
	"fmt"
	"math"
)

// weightSumTolerance absorbs float literal rounding in user configs.
const weightSumTolerance = 0.001

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateDetector() error {
	d := c.Detector
	if err := ensureNonNegativeMap(map[string]float64{
		"detector.duration_tolerance":       d.DurationTolerance,
		"detector.aspect_ratio_tolerance":   d.AspectRatioTolerance,
		"detector.size_ratio_tolerance":     d.SizeRatioTolerance,
		"detector.bitrate_ratio_tolerance":  d.BitrateRatioTolerance,
		"detector.timestamp_skew_seconds":   d.TimestampSkewSeconds,
		"detector.timestamp_reject_seconds": d.TimestampRejectSeconds,
	}); err != nil {
		return err
	}
	if d.MinConfidenceScore < 0 || d.MinConfidenceScore > 1 {
		return errors.New("detector.min_confidence_score must be between 0 and 1")
	}
	if d.TimestampRejectSeconds < d.TimestampSkewSeconds {
		return errors.New("detector.timestamp_reject_seconds must be >= detector.timestamp_skew_seconds")
	}
	originalSum := d.SizeWeight + d.ResolutionWeight + d.RecencyWeight
	if math.Abs(originalSum-1) > weightSumTolerance {
		return fmt.Errorf("detector size/resolution/recency weights must sum to 1, got %.3f", originalSum)
	}
	validationSum := d.AspectWeight + d.TimestampWeight + d.SizeCorrelationWeight + d.BitrateWeight
	if math.Abs(validationSum-1) > weightSumTolerance {
		return fmt.Errorf("detector validation weights must sum to 1, got %.3f", validationSum)
	}
	return nil
}

func (c *Config) validateReport() error {
	switch c.Report.Format {
	case "table", "text", "json", "html":
	default:
		return fmt.Errorf("report.format must be one of table, text, json, html; got %q", c.Report.Format)
	}
	return nil
}

func ensureNonNegativeMap(values map[string]float64) error {
	for key, value := range values {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", key)
		}
	}
	return nil
}
