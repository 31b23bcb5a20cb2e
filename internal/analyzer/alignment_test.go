package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

func TestAlign_IdenticalBlocks(t *testing.T) {
	engine := NewAlignmentEngine()
	code := "def load(path):\n    data = open(path)\n    return data"

	result := engine.Align(code, code, domain.AlignmentOptions{})

	assert.Equal(t, 1.0, result.SimilarityRatio)
	assert.Equal(t, 3, result.AlignedLines)
	assert.Equal(t, 0, result.DivergentLines)
	require.Len(t, result.Segments, 1)
	assert.Equal(t, domain.SegmentAligned, result.Segments[0].Type)
}

func TestAlign_BothEmpty(t *testing.T) {
	engine := NewAlignmentEngine()

	result := engine.Align("", "", domain.AlignmentOptions{})

	assert.Equal(t, 1.0, result.SimilarityRatio)
	assert.Equal(t, 0, result.LeftTotalLines)
	assert.Equal(t, 0, result.RightTotalLines)
	assert.Empty(t, result.Segments)
}

func TestAlign_TrailingNewlineDoesNotAddLine(t *testing.T) {
	engine := NewAlignmentEngine()

	result := engine.Align("a\nb\n", "a\nb", domain.AlignmentOptions{})

	assert.Equal(t, 2, result.LeftTotalLines)
	assert.Equal(t, 2, result.RightTotalLines)
	assert.Equal(t, 1.0, result.SimilarityRatio)
}

func TestAlign_ChangedLineBecomesDivergent(t *testing.T) {
	engine := NewAlignmentEngine()
	left := "total = 0\nresult = compute(a)\nreturn total"
	right := "total = 0\nresult = transform(a)\nreturn total"

	result := engine.Align(left, right, domain.AlignmentOptions{})

	assert.Equal(t, 2, result.AlignedLines)
	assert.Equal(t, 1, result.DivergentLines)
	require.Len(t, result.Segments, 3)
	assert.Equal(t, domain.SegmentAligned, result.Segments[0].Type)
	assert.Equal(t, domain.SegmentDivergent, result.Segments[1].Type)
	assert.Equal(t, domain.SegmentAligned, result.Segments[2].Type)

	div := result.Segments[1]
	assert.Equal(t, []string{"result = compute(a)"}, div.LeftText)
	assert.Equal(t, []string{"result = transform(a)"}, div.RightText)
	assert.InDelta(t, 2.0/3.0, result.SimilarityRatio, 1e-9)
}

func TestAlign_InsertedLine(t *testing.T) {
	engine := NewAlignmentEngine()
	left := "a = 1\nb = 2"
	right := "a = 1\nlog(a)\nb = 2"

	result := engine.Align(left, right, domain.AlignmentOptions{})

	assert.Equal(t, 2, result.AlignedLines)
	require.Len(t, result.Segments, 3)

	ins := result.Segments[1]
	assert.Equal(t, domain.SegmentInserted, ins.Type)
	assert.Equal(t, []string{"log(a)"}, ins.RightText)
	assert.True(t, ins.LeftRange.Empty())
	assert.Equal(t, domain.LineRange{Start: 2, End: 2}, ins.RightRange)

	// Ratio is aligned lines over the longer side.
	assert.InDelta(t, 2.0/3.0, result.SimilarityRatio, 1e-9)
}

func TestAlign_DeleteSurplusAfterPairing(t *testing.T) {
	engine := NewAlignmentEngine()
	left := "start()\nvalidate(x)\ncleanup(x)\nfinish()"
	right := "start()\nprocess(x)\nfinish()"

	result := engine.Align(left, right, domain.AlignmentOptions{})

	// The two-line delete pairs one line against the one-line insert and
	// keeps the remainder as a pure deletion.
	assert.Equal(t, 2, result.AlignedLines)
	assert.Equal(t, 1, result.DivergentLines)
	require.Len(t, result.Segments, 4)
	assert.Equal(t, domain.SegmentDivergent, result.Segments[1].Type)
	assert.Equal(t, domain.SegmentDeleted, result.Segments[2].Type)
	assert.Equal(t, []string{"cleanup(x)"}, result.Segments[2].LeftText)
	assert.True(t, result.Segments[2].RightRange.Empty())
	assert.Equal(t, 0.5, result.SimilarityRatio)
}

func TestAlign_IgnoreWhitespace(t *testing.T) {
	engine := NewAlignmentEngine()

	result := engine.Align("x = 1", "x=1", domain.AlignmentOptions{IgnoreWhitespace: true})

	assert.Equal(t, 1.0, result.SimilarityRatio)
	require.Len(t, result.Segments, 1)
	seg := result.Segments[0]
	assert.Equal(t, domain.SegmentAligned, seg.Type)
	// Raw text survives normalization.
	assert.Equal(t, []string{"x = 1"}, seg.LeftText)
	assert.Equal(t, []string{"x=1"}, seg.RightText)
}

func TestAlign_IgnoreComments(t *testing.T) {
	engine := NewAlignmentEngine()
	left := "x = compute()  # cache the result\nreturn x"
	right := "x = compute()\nreturn x  // done"

	result := engine.Align(left, right, domain.AlignmentOptions{IgnoreComments: true})

	assert.Equal(t, 2, result.AlignedLines)
	assert.Equal(t, 1.0, result.SimilarityRatio)
}

func TestStripLineComment(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"hash comment", "x = 1  # note", "x = 1"},
		{"slash comment", "x = 1 // note", "x = 1"},
		{"comment only", "# just a note", ""},
		{"hash inside string", `s = "a#b"`, `s = "a#b"`},
		{"no comment", "return x", "return x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripLineComment(tt.line))
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, splitLines("a\n\nb"))
}
