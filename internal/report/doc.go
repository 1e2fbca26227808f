// Package report assembles scan results into a serializable report and
// renders it as text, JSON, or HTML.
//
// Build walks every duplicate group through the detector's classification
// and recommendation passes once and captures the outcome, so all output
// formats describe the same run. Rendering never re-runs detection.
package report
