package refactor

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// fileDiffStats carries per-file additions/deletions for summaries.
type fileDiffStats struct {
	Additions int
	Deletions int
}

// RenderFileDiff renders a unified-diff-style preview for one file: a
// header block of '=' characters framing the path, @@ hunk headers, -/+
// line prefixes, and an additions/deletions count.
func RenderFileDiff(path, oldContent, newContent string) string {
	body, stats := diffBody(oldContent, newContent)

	var b strings.Builder
	frame := strings.Repeat("=", 60)
	b.WriteString(frame)
	b.WriteByte('\n')
	b.WriteString(path)
	b.WriteByte('\n')
	b.WriteString(frame)
	b.WriteByte('\n')
	b.WriteString(body)
	fmt.Fprintf(&b, "(+%d/-%d)\n", stats.Additions, stats.Deletions)
	return b.String()
}

// RenderMultiFileDiff concatenates per-file diffs and prepends an aggregate
// summary line.
func RenderMultiFileDiff(paths []string, oldContents, newContents map[string]string) string {
	totalAdd, totalDel := 0, 0
	sections := make([]string, 0, len(paths))

	for _, path := range paths {
		body, stats := diffBody(oldContents[path], newContents[path])
		totalAdd += stats.Additions
		totalDel += stats.Deletions

		var b strings.Builder
		frame := strings.Repeat("=", 60)
		b.WriteString(frame)
		b.WriteByte('\n')
		b.WriteString(path)
		b.WriteByte('\n')
		b.WriteString(frame)
		b.WriteByte('\n')
		b.WriteString(body)
		fmt.Fprintf(&b, "(+%d/-%d)\n", stats.Additions, stats.Deletions)
		sections = append(sections, b.String())
	}

	summary := fmt.Sprintf("%d file(s) modified, total +%d/-%d\n\n", len(paths), totalAdd, totalDel)
	return summary + strings.Join(sections, "\n")
}

// diffBody computes the hunked diff body between two contents.
func diffBody(oldContent, newContent string) (string, fileDiffStats) {
	dmp := diffmatchpatch.New()
	c1, c2, lineArray := dmp.DiffLinesToChars(oldContent, newContent)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lineArray)

	var b strings.Builder
	stats := fileDiffStats{}
	oldLine, newLine := 1, 1

	for _, d := range diffs {
		lines := splitDiffLines(d.Text)
		if len(lines) == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldLine += len(lines)
			newLine += len(lines)
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "@@ -%d,%d +%d,0 @@\n", oldLine, len(lines), newLine-1)
			for _, line := range lines {
				fmt.Fprintf(&b, "-%s\n", line)
			}
			stats.Deletions += len(lines)
			oldLine += len(lines)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "@@ -%d,0 +%d,%d @@\n", oldLine-1, newLine, len(lines))
			for _, line := range lines {
				fmt.Fprintf(&b, "+%s\n", line)
			}
			stats.Additions += len(lines)
			newLine += len(lines)
		}
	}

	return b.String(), stats
}

func splitDiffLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
