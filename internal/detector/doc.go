// Package detector implements the duplicate detection and scoring engine.
//
// Detection runs in four passes over the catalog:
//
//  1. Grouping: records sharing a base filename are reduced to the largest
//     subset agreeing on duration within tolerance.
//  2. Original identification: each group member is scored on file size,
//     resolution, and embedded creation time to pick the likely original.
//  3. Validation: every (original, duplicate) pair is checked on aspect
//     ratio, embedded timestamps, and size/bitrate correlation, producing a
//     weighted confidence score and a human-readable reason.
//  4. Classification: validation outcomes become severity-tagged edge cases
//     and a final recommended action per file (preserve, safe delete,
//     verify, or manual review).
//
// The engine works purely from probed metadata: it never inspects file
// content, and it only recommends actions, it does not delete anything.
// All tolerances and weights live in Tunables so policy changes need no
// code changes.
package detector
