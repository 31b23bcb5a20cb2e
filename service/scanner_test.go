package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

func writeSourceFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanProject_ExtractsCandidates(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "app.py", "def a():\n    return 1\n\ndef b():\n    return 2\n")

	req := domain.DefaultAnalyzeRequest()
	req.ProjectPath = dir
	req.IncludePatterns = []string{"**/*.py"}

	candidates, err := NewCandidateScanner().ScanProject(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "def a():\n    return 1", candidates[0].Text)
	assert.Equal(t, 1, candidates[0].StartLine)
	assert.Equal(t, 2, candidates[0].EndLine)
	assert.Equal(t, 4, candidates[1].StartLine)
	assert.NotEmpty(t, candidates[0].ID)
	assert.NotEqual(t, candidates[0].ID, candidates[1].ID)
}

func TestScanProject_ExcludePatterns(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "app.py", "def a():\n    return 1\n")
	writeSourceFile(t, dir, "test_app.py", "def test_a():\n    assert True\n")

	req := domain.DefaultAnalyzeRequest()
	req.ProjectPath = dir
	req.IncludePatterns = []string{"**/*.py"}
	req.ExcludePatterns = []string{"test_*.py"}

	candidates, err := NewCandidateScanner().ScanProject(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].FilePath, "app.py")
}

func TestScanProject_SkipsHiddenDirsAndOtherLanguages(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "app.py", "x = 1\n")
	writeSourceFile(t, dir, ".venv/lib.py", "y = 2\n")
	writeSourceFile(t, dir, "readme.md", "not code\n")

	req := domain.DefaultAnalyzeRequest()
	req.ProjectPath = dir
	req.IncludePatterns = []string{"**/*.py"}

	candidates, err := NewCandidateScanner().ScanProject(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Contains(t, candidates[0].FilePath, "app.py")
}

func TestScanProject_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	writeSourceFile(t, dir, "app.py", "x = 1\n")

	req := domain.DefaultAnalyzeRequest()
	req.ProjectPath = dir

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCandidateScanner().ScanProject(ctx, req)
	require.Error(t, err)
}

func TestExtractBlocks(t *testing.T) {
	content := "import os\nimport sys\n\ndef first():\n    a = 1\n    return a\n\n\ndef second():\n    b = 2\n    return b\n"

	blocks := extractBlocks(content)
	require.Len(t, blocks, 3)

	assert.Equal(t, "import os\nimport sys", blocks[0].text)
	assert.Equal(t, 1, blocks[0].startLine)
	assert.Equal(t, 2, blocks[0].endLine)

	assert.Equal(t, "def first():\n    a = 1\n    return a", blocks[1].text)
	assert.Equal(t, 4, blocks[1].startLine)
	assert.Equal(t, 6, blocks[1].endLine)

	assert.Equal(t, 9, blocks[2].startLine)
	assert.Equal(t, 11, blocks[2].endLine)
}

func TestExtractBlocks_BlankLinesInsideBodyKept(t *testing.T) {
	content := "def f():\n    a = 1\n\n    return a\n"

	blocks := extractBlocks(content)
	require.Len(t, blocks, 1)
	assert.Equal(t, "def f():\n    a = 1\n\n    return a", blocks[0].text)
	assert.Equal(t, 4, blocks[0].endLine)
}

func TestExtractBlocks_Empty(t *testing.T) {
	assert.Empty(t, extractBlocks(""))
	assert.Empty(t, extractBlocks("\n\n\n"))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny([]string{"**/*.py"}, "src/app.py"))
	assert.True(t, matchesAny([]string{"test_*.py"}, "pkg/test_app.py"))
	assert.False(t, matchesAny([]string{"**/*.js"}, "src/app.py"))
	assert.False(t, matchesAny(nil, "src/app.py"))
}
