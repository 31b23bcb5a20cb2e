package refactor

import (
	"strings"
)

// InsertImport inserts an import statement at the language-appropriate
// position. Insertion is skipped when an identical statement already exists
// verbatim anywhere in the file.
func InsertImport(content, importStmt, language string) string {
	if importStmt == "" {
		return content
	}
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == strings.TrimSpace(importStmt) {
			return content
		}
	}

	lines := strings.Split(content, "\n")
	var idx int
	switch normalizeLanguage(language) {
	case "python":
		idx = pythonInsertIndex(lines)
	case "javascript":
		idx = javascriptInsertIndex(lines)
	case "go":
		return goInsertImport(lines, importStmt)
	default:
		idx = 0
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, importStmt)
	out = append(out, lines[idx:]...)
	return strings.Join(out, "\n")
}

func normalizeLanguage(language string) string {
	switch strings.ToLower(language) {
	case "python", "py":
		return "python"
	case "javascript", "js", "typescript", "ts":
		return "javascript"
	case "go", "golang":
		return "go"
	}
	return strings.ToLower(language)
}

// pythonInsertIndex returns the line index after the shebang, encoding
// declaration, module docstring and any existing import block.
func pythonInsertIndex(lines []string) int {
	idx := 0

	// Shebang and encoding cookie.
	for idx < len(lines) {
		trimmed := strings.TrimSpace(lines[idx])
		if strings.HasPrefix(trimmed, "#!") || strings.Contains(trimmed, "coding:") || strings.Contains(trimmed, "coding=") {
			idx++
			continue
		}
		break
	}

	// Module docstring, single or multi line.
	if idx < len(lines) {
		trimmed := strings.TrimSpace(lines[idx])
		for _, quote := range []string{`"""`, "'''"} {
			if strings.HasPrefix(trimmed, quote) {
				rest := trimmed[len(quote):]
				if strings.Contains(rest, quote) {
					idx++
				} else {
					idx++
					for idx < len(lines) && !strings.Contains(lines[idx], quote) {
						idx++
					}
					if idx < len(lines) {
						idx++
					}
				}
				break
			}
		}
	}

	// Existing import block, allowing interleaved blank lines.
	last := idx
	for i := idx; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "from ") {
			last = i + 1
			continue
		}
		break
	}

	return last
}

// javascriptInsertIndex returns the line index after a "use strict" pragma
// and existing import/require statements.
func javascriptInsertIndex(lines []string) int {
	last := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		isPragma := strings.HasPrefix(trimmed, `'use strict'`) || strings.HasPrefix(trimmed, `"use strict"`)
		isImport := strings.HasPrefix(trimmed, "import ") ||
			(strings.Contains(trimmed, "require(") && (strings.HasPrefix(trimmed, "const ") || strings.HasPrefix(trimmed, "var ") || strings.HasPrefix(trimmed, "let ")))
		if isPragma || isImport {
			last = i + 1
			continue
		}
		break
	}
	return last
}

// goInsertImport places the statement after the package clause and any
// existing import statements, adding a blank line after a bare package line.
func goInsertImport(lines []string, importStmt string) string {
	packageIdx := -1
	lastImport := -1
	inBlock := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "package "):
			packageIdx = i
		case strings.HasPrefix(trimmed, "import ("):
			inBlock = true
		case inBlock && trimmed == ")":
			inBlock = false
			lastImport = i
		case strings.HasPrefix(trimmed, "import "):
			lastImport = i
		}
	}

	out := make([]string, 0, len(lines)+2)
	switch {
	case lastImport >= 0:
		out = append(out, lines[:lastImport+1]...)
		out = append(out, importStmt)
		out = append(out, lines[lastImport+1:]...)
	case packageIdx >= 0:
		out = append(out, lines[:packageIdx+1]...)
		out = append(out, "", importStmt)
		out = append(out, lines[packageIdx+1:]...)
	default:
		out = append(out, importStmt)
		out = append(out, lines...)
	}
	return strings.Join(out, "\n")
}
