package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeToml(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".refakt.toml"), []byte(content), 0o644))
}

func TestTomlLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	loader := NewTomlConfigLoader()

	cfg, err := loader.LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestTomlLoadConfig_DedupSection(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, `[dedup]
min_similarity = 0.9
min_lines = 5
mode = "sequence"
language = "javascript"
max_candidates = 3
backup_enabled = false
format = "json"
show_details = true
`)

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 0.9, cfg.Detection.MinSimilarity)
	assert.Equal(t, 5, cfg.Detection.MinLines)
	assert.Equal(t, "sequence", cfg.Detection.Mode)
	assert.Equal(t, "javascript", cfg.Detection.Language)
	assert.Equal(t, 3, cfg.Ranking.MaxCandidates)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Output.ShowDetails)
}

func TestTomlLoadConfig_IndividualSections(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, `[detection]
min_similarity = 0.85
mode = "sketch"

[ranking]
enrichment_workers = 8

[backup]
enabled = false
retention_days = 7

[analysis]
include_patterns = ["src/**/*.py"]
recursive = false
`)

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 0.85, cfg.Detection.MinSimilarity)
	assert.Equal(t, "sketch", cfg.Detection.Mode)
	assert.Equal(t, 8, cfg.Ranking.EnrichmentWorkers)
	assert.False(t, cfg.Backup.Enabled)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
	assert.Equal(t, []string{"src/**/*.py"}, cfg.Analysis.IncludePatterns)
	assert.False(t, cfg.Analysis.Recursive)
}

func TestTomlLoadConfig_UnsetBooleansKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, "[dedup]\nmin_lines = 4\n")

	cfg, err := NewTomlConfigLoader().LoadConfig(dir)
	require.NoError(t, err)

	// Only min_lines was set; pointer booleans stay at their defaults.
	assert.Equal(t, 4, cfg.Detection.MinLines)
	assert.True(t, cfg.Backup.Enabled)
	assert.False(t, cfg.Output.ShowDetails)
	assert.True(t, cfg.Analysis.Recursive)
}

func TestTomlLoadConfig_WalksUpDirectoryTree(t *testing.T) {
	root := t.TempDir()
	writeToml(t, root, "[dedup]\nmin_lines = 7\n")

	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := NewTomlConfigLoader().LoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Detection.MinLines)
}

func TestTomlLoadConfig_InvalidTomlFails(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, "not toml at all ===")

	_, err := NewTomlConfigLoader().LoadConfig(dir)
	require.Error(t, err)
}

func TestTomlLoadConfig_InvalidValuesRejected(t *testing.T) {
	dir := t.TempDir()
	writeToml(t, dir, "[dedup]\nmode = \"fuzzy\"\n")

	_, err := NewTomlConfigLoader().LoadConfig(dir)
	require.Error(t, err)
}

func TestGetSupportedConfigFiles(t *testing.T) {
	assert.Equal(t, []string{".refakt.toml"}, NewTomlConfigLoader().GetSupportedConfigFiles())
}
