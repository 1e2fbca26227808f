// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// This package has no dupescan-specific dependencies and could be extracted
// as a standalone library.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, bitrate, tags)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Parse: decodes a stored ffprobe payload without running the binary
//
// Helper methods on Result provide convenient access to stream lookup,
// duration parsing, embedded creation timestamps, and bitrate extraction.
package ffprobe
