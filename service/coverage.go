package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// CoverageProviderImpl implements the CoverageProvider interface with a file
// naming heuristic: a source file counts as covered when a sibling test file
// with a conventional name exists.
type CoverageProviderImpl struct{}

// NewCoverageProvider creates a new coverage provider service
func NewCoverageProvider() *CoverageProviderImpl {
	return &CoverageProviderImpl{}
}

// HasTests reports whether any of the files has a matching test file.
// Callers deduplicate the file list before batch lookups.
func (p *CoverageProviderImpl) HasTests(ctx context.Context, files []string) (bool, error) {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if hasTestFile(file) {
			return true, nil
		}
	}
	return false, nil
}

func hasTestFile(file string) bool {
	dir := filepath.Dir(file)
	base := filepath.Base(file)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test") || strings.HasSuffix(stem, ".test") {
		return true
	}

	candidates := []string{
		filepath.Join(dir, "test_"+base),
		filepath.Join(dir, stem+"_test"+ext),
		filepath.Join(dir, stem+".test"+ext),
		filepath.Join(dir, stem+".spec"+ext),
		filepath.Join(dir, "tests", "test_"+base),
		filepath.Join(filepath.Dir(dir), "tests", "test_"+base),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}
