package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

func TestLoadConfig_NoConfigFileUsesDefaults(t *testing.T) {
	loader := NewConfigurationLoader()

	req, err := loader.LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "python", req.Language)
	assert.Equal(t, 0.80, req.MinSimilarity)
	assert.Equal(t, domain.SimilarityMode("hybrid"), req.SimilarityMode)
}

func TestLoadConfig_ReadsProjectToml(t *testing.T) {
	dir := t.TempDir()
	content := "[dedup]\nmin_similarity = 0.95\nlanguage = \"typescript\"\nmax_candidates = 4\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".refakt.toml"), []byte(content), 0o644))

	req, err := NewConfigurationLoader().LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 0.95, req.MinSimilarity)
	assert.Equal(t, "typescript", req.Language)
	assert.Equal(t, 4, req.MaxCandidates)
}

func TestLoadConfig_FilePathUsesItsDirectory(t *testing.T) {
	dir := t.TempDir()
	content := "[dedup]\nmin_lines = 6\n"
	path := filepath.Join(dir, ".refakt.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	req, err := NewConfigurationLoader().LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 6, req.MinLines)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".refakt.toml")

	req := domain.DefaultAnalyzeRequest()
	req.MinSimilarity = 0.9
	req.Language = "javascript"
	req.IncludePatterns = []string{"src/**/*.js"}

	loader := NewConfigurationLoader()
	require.NoError(t, loader.SaveConfig(req, path))

	loaded, err := loader.LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.9, loaded.MinSimilarity)
	assert.Equal(t, "javascript", loaded.Language)
	assert.Equal(t, []string{"src/**/*.js"}, loaded.IncludePatterns)
}

func TestMergeConfig_OverridesWin(t *testing.T) {
	base := domain.DefaultAnalyzeRequest()
	base.Language = "python"
	base.MinSimilarity = 0.8
	base.ShowDetails = true

	override := &domain.AnalyzeRequest{
		ProjectPath:   "src",
		Language:      "go",
		MinSimilarity: 0.9,
		CheckCoverage: true,
	}

	merged := NewConfigurationLoader().MergeConfig(base, override)

	assert.Equal(t, "src", merged.ProjectPath)
	assert.Equal(t, "go", merged.Language)
	assert.Equal(t, 0.9, merged.MinSimilarity)
	// Booleans always come from the override side.
	assert.True(t, merged.CheckCoverage)
	assert.False(t, merged.ShowDetails)
	// Zero values in the override keep the base.
	assert.Equal(t, base.MinLines, merged.MinLines)
	assert.Equal(t, base.MaxCandidates, merged.MaxCandidates)
}

func TestMergeConfig_NilSides(t *testing.T) {
	loader := NewConfigurationLoader()
	req := domain.DefaultAnalyzeRequest()

	assert.Equal(t, req, loader.MergeConfig(nil, req))
	assert.Equal(t, req, loader.MergeConfig(req, nil))
}
