// Package thumbs generates preview thumbnails for HTML reports.
//
// A frame is extracted with ffmpeg at 10% of the video's duration, scaled
// down, and cached on disk keyed by the source path and modification time so
// unchanged files never pay the extraction cost twice. Each thumbnail carries
// a JSON sidecar describing its source; a missing or corrupt sidecar simply
// forces regeneration.
package thumbs
