// Package metacache persists ffprobe results in SQLite so repeat scans skip
// files that have not changed.
//
// Entries are keyed by (path, mtime_unix); touching a file invalidates its
// cached row naturally. Files that ffprobe could not parse are stored as
// negative entries so they are not re-probed on every run. The cache is
// disposable: a corrupt or version-mismatched database is removed and
// recreated rather than treated as an error.
package metacache
