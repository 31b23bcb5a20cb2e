package domain

import (
	"fmt"
)

// SegmentType classifies a run of lines within an alignment.
type SegmentType string

const (
	SegmentAligned   SegmentType = "aligned"
	SegmentDivergent SegmentType = "divergent"
	SegmentInserted  SegmentType = "inserted"
	SegmentDeleted   SegmentType = "deleted"
)

// LineRange is a half-open-free, 1-based inclusive line range within one
// side of an alignment. Empty ranges (Start == 0) mark the side that has no
// content for inserted/deleted segments.
type LineRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Empty reports whether the range carries no lines.
func (r LineRange) Empty() bool {
	return r.Start == 0 && r.End == 0
}

// Len returns the number of lines covered by the range.
func (r LineRange) Len() int {
	if r.Empty() {
		return 0
	}
	return r.End - r.Start + 1
}

// String returns the "start-end" form used in reports.
func (r LineRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// AlignmentSegment is one classified run of the line alignment. LeftText and
// RightText hold the raw (un-normalized) lines for each side; the range is
// empty on the side that has no content.
type AlignmentSegment struct {
	Type       SegmentType `json:"type" yaml:"type"`
	LeftText   []string    `json:"left_text,omitempty" yaml:"left_text,omitempty"`
	RightText  []string    `json:"right_text,omitempty" yaml:"right_text,omitempty"`
	LeftRange  LineRange   `json:"left_range" yaml:"left_range"`
	RightRange LineRange   `json:"right_range" yaml:"right_range"`
}

// String returns string representation of AlignmentSegment
func (s *AlignmentSegment) String() string {
	return fmt.Sprintf("%s[left=%s right=%s]", s.Type, s.LeftRange.String(), s.RightRange.String())
}

// AlignmentResult is the output of aligning two code blocks. Pure function
// output; never mutated after creation.
type AlignmentResult struct {
	SimilarityRatio float64             `json:"similarity_ratio" yaml:"similarity_ratio"`
	AlignedLines    int                 `json:"aligned_lines" yaml:"aligned_lines"`
	DivergentLines  int                 `json:"divergent_lines" yaml:"divergent_lines"`
	Segments        []*AlignmentSegment `json:"segments" yaml:"segments"`
	LeftTotalLines  int                 `json:"left_total_lines" yaml:"left_total_lines"`
	RightTotalLines int                 `json:"right_total_lines" yaml:"right_total_lines"`
}

// String returns string representation of AlignmentResult
func (r *AlignmentResult) String() string {
	return fmt.Sprintf("Alignment{similarity: %.3f, aligned: %d, divergent: %d, segments: %d}",
		r.SimilarityRatio, r.AlignedLines, r.DivergentLines, len(r.Segments))
}

// AlignmentOptions controls line normalization before comparison. Lines that
// normalize to the same key align even when the raw text differs.
type AlignmentOptions struct {
	IgnoreWhitespace bool `json:"ignore_whitespace" yaml:"ignore_whitespace"`
	IgnoreComments   bool `json:"ignore_comments" yaml:"ignore_comments"`
}
