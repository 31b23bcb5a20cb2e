package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/ludo-technologies/refakt/domain"
)

// languageExtensions maps each supported language to its source extensions.
var languageExtensions = map[string][]string{
	"python":     {".py", ".pyi"},
	"javascript": {".js", ".jsx", ".mjs"},
	"typescript": {".ts", ".tsx"},
	"go":         {".go"},
}

// CandidateScannerImpl implements the CandidateScanner interface. It walks
// the project tree, filters files with glob patterns, and slices each file
// into top-level indentation blocks.
type CandidateScannerImpl struct{}

// NewCandidateScanner creates a new candidate scanner service
func NewCandidateScanner() *CandidateScannerImpl {
	return &CandidateScannerImpl{}
}

// ScanProject extracts candidate fragments from the project tree.
func (s *CandidateScannerImpl) ScanProject(ctx context.Context, req *domain.AnalyzeRequest) ([]*domain.CodeCandidate, error) {
	files, err := s.collectFiles(req)
	if err != nil {
		return nil, err
	}

	var candidates []*domain.CodeCandidate
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewAnalysisError("scan cancelled", err)
		}

		content, err := os.ReadFile(file)
		if err != nil {
			// Unreadable files are skipped, not fatal.
			continue
		}

		for _, block := range extractBlocks(string(content)) {
			candidates = append(candidates, &domain.CodeCandidate{
				ID:        uuid.NewString(),
				FilePath:  file,
				Text:      block.text,
				StartLine: block.startLine,
				EndLine:   block.endLine,
				Language:  req.Language,
			})
		}
	}

	return candidates, nil
}

// collectFiles walks the project and applies include/exclude globs against
// project-relative paths.
func (s *CandidateScannerImpl) collectFiles(req *domain.AnalyzeRequest) ([]string, error) {
	exts := languageExtensions[req.Language]
	if len(exts) == 0 {
		exts = languageExtensions["python"]
	}

	var files []string
	walkFunc := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.IsDir() {
			if path != req.ProjectPath && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasExtension(path, exts) {
			return nil
		}

		rel, err := filepath.Rel(req.ProjectPath, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(req.ExcludePatterns, rel) {
			return nil
		}
		if len(req.IncludePatterns) > 0 && !matchesAny(req.IncludePatterns, rel) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := filepath.Walk(req.ProjectPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", req.ProjectPath, err)
	}
	return files, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// matchesAny matches a relative path against doublestar globs, falling back
// to a base-name match for bare patterns like "*_test.py".
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, filepath.Base(rel)); err == nil && matched {
			return true
		}
	}
	return false
}

type codeBlock struct {
	text      string
	startLine int
	endLine   int
}

// extractBlocks slices a file into top-level blocks. A block opens at a
// non-blank column-zero line and runs through its indented body; blank lines
// between a body and the next column-zero line close the block.
func extractBlocks(content string) []codeBlock {
	lines := strings.Split(content, "\n")

	var blocks []codeBlock
	var current []string
	startLine := 0

	flush := func(endLine int) {
		if len(current) == 0 {
			return
		}
		// Trim trailing blank lines off the block.
		end := len(current)
		for end > 0 && strings.TrimSpace(current[end-1]) == "" {
			end--
		}
		if end > 0 {
			blocks = append(blocks, codeBlock{
				text:      strings.Join(current[:end], "\n"),
				startLine: startLine,
				endLine:   startLine + end - 1,
			})
		}
		current = nil
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		indented := line != "" && (line[0] == ' ' || line[0] == '\t')

		switch {
		case trimmed == "":
			if len(current) > 0 {
				current = append(current, line)
			}
		case !indented:
			// A fresh column-zero line after a blank gap starts a new block.
			if len(current) > 0 && strings.TrimSpace(current[len(current)-1]) == "" {
				flush(i)
			}
			if len(current) == 0 {
				startLine = i + 1
			}
			current = append(current, line)
		default:
			if len(current) == 0 {
				startLine = i + 1
			}
			current = append(current, line)
		}
	}
	flush(len(lines))

	return blocks
}
