package analyzer

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ludo-technologies/refakt/domain"
)

// AlignmentEngine computes line-level alignments between two code blocks.
// The underlying diff is go-diff's Myers algorithm in line mode, which fixes
// the tie-breaking for blocks containing repeated lines deterministically.
type AlignmentEngine struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewAlignmentEngine creates a new alignment engine
func NewAlignmentEngine() *AlignmentEngine {
	return &AlignmentEngine{dmp: diffmatchpatch.New()}
}

// Align aligns two blocks line by line and classifies runs as aligned,
// divergent, inserted or deleted. Lines are compared through normalization
// keys derived from the options, so whitespace-only or comment-only
// differences may align even though the raw text differs.
func (e *AlignmentEngine) Align(left, right string, opts domain.AlignmentOptions) *domain.AlignmentResult {
	leftLines := splitLines(left)
	rightLines := splitLines(right)

	result := &domain.AlignmentResult{
		Segments:        []*domain.AlignmentSegment{},
		LeftTotalLines:  len(leftLines),
		RightTotalLines: len(rightLines),
	}

	if len(leftLines) == 0 && len(rightLines) == 0 {
		result.SimilarityRatio = 1.0
		return result
	}

	leftKeys := comparisonKeys(leftLines, opts)
	rightKeys := comparisonKeys(rightLines, opts)

	diffs := e.lineDiff(leftKeys, rightKeys)
	e.buildSegments(result, diffs, leftLines, rightLines)

	maxTotal := len(leftLines)
	if len(rightLines) > maxTotal {
		maxTotal = len(rightLines)
	}
	if maxTotal < 1 {
		maxTotal = 1
	}
	result.SimilarityRatio = float64(result.AlignedLines) / float64(maxTotal)

	return result
}

// lineDiff runs the diff over comparison keys in line mode.
func (e *AlignmentEngine) lineDiff(leftKeys, rightKeys []string) []diffmatchpatch.Diff {
	leftJoined := ""
	if len(leftKeys) > 0 {
		leftJoined = strings.Join(leftKeys, "\n") + "\n"
	}
	rightJoined := ""
	if len(rightKeys) > 0 {
		rightJoined = strings.Join(rightKeys, "\n") + "\n"
	}
	c1, c2, lineArray := e.dmp.DiffLinesToChars(leftJoined, rightJoined)
	diffs := e.dmp.DiffMain(c1, c2, false)
	return e.dmp.DiffCharsToLines(diffs, lineArray)
}

// buildSegments converts diff chunks into classified segments. A delete run
// immediately followed by an insert run pairs into a divergent segment for
// the overlapping line count; the surplus side stays deleted or inserted.
func (e *AlignmentEngine) buildSegments(result *domain.AlignmentResult, diffs []diffmatchpatch.Diff, leftLines, rightLines []string) {
	leftPos := 0  // 0-based cursor into leftLines
	rightPos := 0 // 0-based cursor into rightLines

	i := 0
	for i < len(diffs) {
		d := diffs[i]
		count := chunkLineCount(d.Text)
		if count == 0 {
			i++
			continue
		}

		switch d.Type {
		case diffmatchpatch.DiffEqual:
			seg := &domain.AlignmentSegment{
				Type:       domain.SegmentAligned,
				LeftText:   copyLines(leftLines, leftPos, count),
				RightText:  copyLines(rightLines, rightPos, count),
				LeftRange:  lineRange(leftPos, count),
				RightRange: lineRange(rightPos, count),
			}
			result.Segments = append(result.Segments, seg)
			result.AlignedLines += count
			leftPos += count
			rightPos += count
			i++

		case diffmatchpatch.DiffDelete:
			delCount := count
			insCount := 0
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				insCount = chunkLineCount(diffs[i+1].Text)
			}

			paired := delCount
			if insCount < paired {
				paired = insCount
			}

			if paired > 0 {
				seg := &domain.AlignmentSegment{
					Type:       domain.SegmentDivergent,
					LeftText:   copyLines(leftLines, leftPos, paired),
					RightText:  copyLines(rightLines, rightPos, paired),
					LeftRange:  lineRange(leftPos, paired),
					RightRange: lineRange(rightPos, paired),
				}
				result.Segments = append(result.Segments, seg)
				result.DivergentLines += paired
				leftPos += paired
				rightPos += paired
			}
			if delCount > paired {
				extra := delCount - paired
				seg := &domain.AlignmentSegment{
					Type:      domain.SegmentDeleted,
					LeftText:  copyLines(leftLines, leftPos, extra),
					LeftRange: lineRange(leftPos, extra),
				}
				result.Segments = append(result.Segments, seg)
				leftPos += extra
			}
			if insCount > paired {
				extra := insCount - paired
				seg := &domain.AlignmentSegment{
					Type:       domain.SegmentInserted,
					RightText:  copyLines(rightLines, rightPos, extra),
					RightRange: lineRange(rightPos, extra),
				}
				result.Segments = append(result.Segments, seg)
				rightPos += extra
			}
			if insCount > 0 {
				i += 2
			} else {
				i++
			}

		case diffmatchpatch.DiffInsert:
			seg := &domain.AlignmentSegment{
				Type:       domain.SegmentInserted,
				RightText:  copyLines(rightLines, rightPos, count),
				RightRange: lineRange(rightPos, count),
			}
			result.Segments = append(result.Segments, seg)
			rightPos += count
			i++
		}
	}
}

// splitLines splits block text into lines, dropping the phantom empty line
// a trailing newline would produce. An empty block has zero lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// comparisonKeys derives per-line normalization keys from the active flags.
func comparisonKeys(lines []string, opts domain.AlignmentOptions) []string {
	keys := make([]string, len(lines))
	for i, line := range lines {
		key := line
		if opts.IgnoreComments {
			key = stripLineComment(key)
		}
		if opts.IgnoreWhitespace {
			key = stripAllWhitespace(key)
		}
		keys[i] = key
	}
	return keys
}

// stripLineComment removes trailing #, // and full-line comment content.
// A comment-only line normalizes to the empty key.
func stripLineComment(line string) string {
	inString := false
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString {
			if c == quote {
				inString = false
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			inString = true
			quote = c
		case c == '#':
			return strings.TrimRight(line[:i], " \t")
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}

func stripAllWhitespace(line string) string {
	var b strings.Builder
	for _, r := range line {
		if r != ' ' && r != '\t' && r != '\r' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// chunkLineCount counts the lines a diff chunk spans. Chunks always end with
// a newline because the inputs were joined with trailing newlines.
func chunkLineCount(text string) int {
	return strings.Count(text, "\n")
}

func copyLines(lines []string, start, count int) []string {
	end := start + count
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	out := make([]string, end-start)
	copy(out, lines[start:end])
	return out
}

// lineRange converts a 0-based cursor and count into a 1-based inclusive range.
func lineRange(start, count int) domain.LineRange {
	if count <= 0 {
		return domain.LineRange{}
	}
	return domain.LineRange{Start: start + 1, End: start + count}
}
