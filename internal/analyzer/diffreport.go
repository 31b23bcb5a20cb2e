package analyzer

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/refakt/domain"
)

// ReportOptions controls alignment report rendering.
type ReportOptions struct {
	// CollapseContext replaces aligned runs longer than ContextLines with a
	// one-line placeholder.
	CollapseContext bool
	ContextLines    int
}

// DefaultReportOptions returns the default report rendering options.
func DefaultReportOptions() ReportOptions {
	return ReportOptions{CollapseContext: false, ContextLines: 3}
}

// FormatAlignment renders a human-readable alignment report: a summary
// header, divergent pairs framed by ---/+++ markers, and inserted/deleted
// runs with +/- prefixed lines.
func FormatAlignment(result *domain.AlignmentResult, opts ReportOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Similarity: %.1f%% (%d aligned, %d divergent)\n",
		result.SimilarityRatio*100, result.AlignedLines, result.DivergentLines)
	b.WriteString(strings.Repeat("-", 60))
	b.WriteByte('\n')

	for _, seg := range result.Segments {
		switch seg.Type {
		case domain.SegmentAligned:
			writeAlignedRun(&b, seg, opts)
		case domain.SegmentDivergent:
			fmt.Fprintf(&b, "--- lines %s\n", seg.LeftRange.String())
			for _, line := range seg.LeftText {
				fmt.Fprintf(&b, "- %s\n", line)
			}
			fmt.Fprintf(&b, "+++ lines %s\n", seg.RightRange.String())
			for _, line := range seg.RightText {
				fmt.Fprintf(&b, "+ %s\n", line)
			}
		case domain.SegmentInserted:
			fmt.Fprintf(&b, "(inserted) lines %s\n", seg.RightRange.String())
			for _, line := range seg.RightText {
				fmt.Fprintf(&b, "+ %s\n", line)
			}
		case domain.SegmentDeleted:
			fmt.Fprintf(&b, "(deleted) lines %s\n", seg.LeftRange.String())
			for _, line := range seg.LeftText {
				fmt.Fprintf(&b, "- %s\n", line)
			}
		}
	}

	return b.String()
}

func writeAlignedRun(b *strings.Builder, seg *domain.AlignmentSegment, opts ReportOptions) {
	if opts.CollapseContext && len(seg.LeftText) > opts.ContextLines {
		fmt.Fprintf(b, "  [aligned, %d lines]\n", len(seg.LeftText))
		return
	}
	for _, line := range seg.LeftText {
		fmt.Fprintf(b, "  %s\n", line)
	}
}
