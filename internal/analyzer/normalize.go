package analyzer

import (
	"strings"

	"github.com/ludo-technologies/refakt/internal/constants"
)

// NormalizeBlock prepares a code block for comparison: blank lines are
// dropped, trailing whitespace is trimmed, and leading indentation is capped
// at a fixed width so relocated copies of the same block still compare equal.
func NormalizeBlock(text string) []string {
	lines := strings.Split(text, "\n")
	normalized := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}
		normalized = append(normalized, capIndentation(trimmed))
	}

	return normalized
}

// capIndentation limits leading whitespace to MaxIndentationWidth columns.
// Tabs count as a single column.
func capIndentation(line string) string {
	indent := 0
	for _, r := range line {
		if r != ' ' && r != '\t' {
			break
		}
		indent++
	}
	if indent <= constants.MaxIndentationWidth {
		return line
	}
	return strings.Repeat(" ", constants.MaxIndentationWidth) + line[indent:]
}

// indentationDepth measures the leading whitespace of a raw line. Tabs are
// expanded to four columns for the nesting heuristic.
func indentationDepth(line string) int {
	depth := 0
	for _, r := range line {
		switch r {
		case ' ':
			depth++
		case '\t':
			depth += 4
		default:
			return depth
		}
	}
	return depth
}
