// Package catalog holds the in-memory metadata gathered during a scan run.
//
// A FileRecord describes one discovered video file; VideoAttributes carries
// the probed container metadata when ffprobe succeeded. The Store indexes
// records by filename, directory, and size so the detector can look up
// duplicate candidates without re-walking the filesystem.
//
// Records are immutable once added and the Store preserves insertion order,
// which keeps detection results reproducible for a given scan.
package catalog
