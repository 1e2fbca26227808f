// Package config loads, normalizes, and validates dupescan's TOML
// configuration. Load applies repository defaults first, then overlays the
// user's file, expands every path field, and rejects values the rest of the
// program cannot work with.
package config
