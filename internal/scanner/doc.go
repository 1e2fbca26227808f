// Package scanner discovers video files under one or more roots and probes
// their container metadata.
//
// Discovery walks each root in order and keeps files whose extension matches
// the configured set. Probing runs on a bounded worker pool; results land in
// a catalog.Store in discovery order regardless of which worker finished
// first. A metacache store, when provided, short-circuits probing for files
// whose modification time has not changed.
package scanner
