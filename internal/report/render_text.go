package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
)

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// RenderText writes a plain text report.
func (r *Report) RenderText(w io.Writer) error {
	var b strings.Builder

	b.WriteString("Duplicate Video Scan Report\n")
	b.WriteString("===========================\n")
	fmt.Fprintf(&b, "Run:       %s\n", r.RunID)
	fmt.Fprintf(&b, "Generated: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if len(r.Roots) > 0 {
		fmt.Fprintf(&b, "Scanned:   %s\n", strings.Join(r.Roots, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Files scanned:     %d\n", r.Summary.TotalFiles)
	fmt.Fprintf(&b, "Duplicate groups:  %d\n", r.Summary.GroupCount)
	fmt.Fprintf(&b, "Duplicate files:   %d (%s)\n", r.Summary.DuplicateCount, humanize.Bytes(uint64(r.Summary.DuplicateBytes)))
	fmt.Fprintf(&b, "Potential savings: %s\n", humanize.Bytes(uint64(r.Summary.PotentialSavings)))

	for _, group := range r.Groups {
		b.WriteString("\n")
		fmt.Fprintf(&b, "%s (confidence %.2f)\n", group.Filename, group.Confidence)
		b.WriteString(strings.Repeat("-", len(group.Filename)+18) + "\n")

		fmt.Fprintf(&b, "  original   %s\n", group.Original.Path)
		fmt.Fprintf(&b, "             %s, %s, %.1fs\n",
			humanize.Bytes(uint64(group.Original.Size)), group.Original.Resolution, group.Original.DurationSeconds)

		for _, dup := range group.Duplicates {
			marker := ""
			if dup.Rotated {
				marker = " [rotated]"
			}
			fmt.Fprintf(&b, "  %-11s%s%s\n", dup.Action, dup.Path, marker)
			fmt.Fprintf(&b, "             %s, %s, score %.2f (%s)\n",
				humanize.Bytes(uint64(dup.Size)), dup.Resolution, dup.Score, dup.ScoreReason)
		}

		for _, finding := range group.Findings {
			fmt.Fprintf(&b, "  ! %s/%s %s: %s\n", finding.Type, finding.Severity, finding.Path, finding.Details)
		}

		if group.Chain.ResolutionCount > 1 {
			if !group.Chain.Consistent {
				b.WriteString("  ! resolutions do not scale proportionally\n")
			}
			if len(group.Chain.ScaleRatios) > 0 {
				fmt.Fprintf(&b, "  scale ratios: %s\n", formatRatios(group.Chain.ScaleRatios))
			}
		}

		if group.PotentialSavings > 0 {
			fmt.Fprintf(&b, "  recoverable: %s\n", humanize.Bytes(uint64(group.PotentialSavings)))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func formatRatios(ratios []float64) string {
	parts := make([]string, len(ratios))
	for i, ratio := range ratios {
		parts[i] = fmt.Sprintf("%.2f", ratio)
	}
	return strings.Join(parts, ", ")
}
