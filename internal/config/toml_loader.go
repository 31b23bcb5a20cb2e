package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// RefaktTomlConfig represents the structure of .refakt.toml
type RefaktTomlConfig struct {
	Dedup     DedupSection             `toml:"dedup"` // Primary: [dedup] section
	Detection RefaktTomlDetection      `toml:"detection"`
	Ranking   RefaktTomlRanking        `toml:"ranking"`
	Backup    RefaktTomlBackup         `toml:"backup"`
	Output    RefaktTomlOutput         `toml:"output"`
	Analysis  RefaktTomlAnalysisConfig `toml:"analysis"`
}

// DedupSection represents the [dedup] section (flat structure)
type DedupSection struct {
	MinSimilarity float64 `toml:"min_similarity"`
	MinLines      int     `toml:"min_lines"`
	Mode          string  `toml:"mode"`
	Language      string  `toml:"language"`
	SketchHashes  int     `toml:"sketch_hashes"`

	MaxCandidates            int `toml:"max_candidates"`
	EnrichmentWorkers        int `toml:"enrichment_workers"`
	EnrichmentTimeoutSeconds int `toml:"enrichment_timeout_seconds"`

	BackupEnabled       *bool `toml:"backup_enabled"` // pointer to detect unset
	BackupRetentionDays int   `toml:"backup_retention_days"`

	Format      string `toml:"format"`
	ShowDetails *bool  `toml:"show_details"` // pointer to detect unset
}

type RefaktTomlDetection struct {
	MinSimilarity float64 `toml:"min_similarity"`
	MinLines      int     `toml:"min_lines"`
	Mode          string  `toml:"mode"`
	Language      string  `toml:"language"`
	SketchHashes  int     `toml:"sketch_hashes"`
}

type RefaktTomlRanking struct {
	MaxCandidates            int `toml:"max_candidates"`
	EnrichmentWorkers        int `toml:"enrichment_workers"`
	EnrichmentTimeoutSeconds int `toml:"enrichment_timeout_seconds"`
}

type RefaktTomlBackup struct {
	Enabled       *bool `toml:"enabled"` // pointer to detect unset
	RetentionDays int   `toml:"retention_days"`
}

type RefaktTomlOutput struct {
	Format      string `toml:"format"`
	ShowDetails *bool  `toml:"show_details"` // pointer to detect unset
}

type RefaktTomlAnalysisConfig struct {
	IncludePatterns []string `toml:"include_patterns"`
	ExcludePatterns []string `toml:"exclude_patterns"`
	Recursive       *bool    `toml:"recursive"` // pointer to detect unset
}

// TomlConfigLoader handles TOML-only configuration loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads configuration from .refakt.toml, walking up the directory
// tree from startDir. Defaults are returned when no config file is found.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.findRefaktToml(startDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var tomlCfg RefaktTomlConfig
	if err := toml.Unmarshal(data, &tomlCfg); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	l.mergeTomlConfig(defaults, &tomlCfg)
	if err := defaults.Validate(); err != nil {
		return nil, err
	}

	return defaults, nil
}

// findRefaktToml walks up the directory tree to find .refakt.toml
func (l *TomlConfigLoader) findRefaktToml(startDir string) (string, error) {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".refakt.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// mergeTomlConfig merges .refakt.toml config into defaults using pointer
// booleans to detect unset values.
// Priority: [dedup] section > individual sections
func (l *TomlConfigLoader) mergeTomlConfig(defaults *Config, tomlCfg *RefaktTomlConfig) {
	l.mergeDedupSection(defaults, &tomlCfg.Dedup)

	if tomlCfg.Detection.MinSimilarity > 0 {
		defaults.Detection.MinSimilarity = tomlCfg.Detection.MinSimilarity
	}
	if tomlCfg.Detection.MinLines > 0 {
		defaults.Detection.MinLines = tomlCfg.Detection.MinLines
	}
	if tomlCfg.Detection.Mode != "" {
		defaults.Detection.Mode = tomlCfg.Detection.Mode
	}
	if tomlCfg.Detection.Language != "" {
		defaults.Detection.Language = tomlCfg.Detection.Language
	}
	if tomlCfg.Detection.SketchHashes > 0 {
		defaults.Detection.SketchHashes = tomlCfg.Detection.SketchHashes
	}

	if tomlCfg.Ranking.MaxCandidates > 0 {
		defaults.Ranking.MaxCandidates = tomlCfg.Ranking.MaxCandidates
	}
	if tomlCfg.Ranking.EnrichmentWorkers > 0 {
		defaults.Ranking.EnrichmentWorkers = tomlCfg.Ranking.EnrichmentWorkers
	}
	if tomlCfg.Ranking.EnrichmentTimeoutSeconds > 0 {
		defaults.Ranking.EnrichmentTimeoutSeconds = tomlCfg.Ranking.EnrichmentTimeoutSeconds
	}

	if tomlCfg.Backup.Enabled != nil {
		defaults.Backup.Enabled = *tomlCfg.Backup.Enabled
	}
	if tomlCfg.Backup.RetentionDays > 0 {
		defaults.Backup.RetentionDays = tomlCfg.Backup.RetentionDays
	}

	if tomlCfg.Output.Format != "" {
		defaults.Output.Format = tomlCfg.Output.Format
	}
	if tomlCfg.Output.ShowDetails != nil {
		defaults.Output.ShowDetails = *tomlCfg.Output.ShowDetails
	}

	if len(tomlCfg.Analysis.IncludePatterns) > 0 {
		defaults.Analysis.IncludePatterns = tomlCfg.Analysis.IncludePatterns
	}
	if len(tomlCfg.Analysis.ExcludePatterns) > 0 {
		defaults.Analysis.ExcludePatterns = tomlCfg.Analysis.ExcludePatterns
	}
	if tomlCfg.Analysis.Recursive != nil {
		defaults.Analysis.Recursive = *tomlCfg.Analysis.Recursive
	}
}

// mergeDedupSection merges settings from the [dedup] section
func (l *TomlConfigLoader) mergeDedupSection(defaults *Config, dedup *DedupSection) {
	if dedup.MinSimilarity > 0 {
		defaults.Detection.MinSimilarity = dedup.MinSimilarity
	}
	if dedup.MinLines > 0 {
		defaults.Detection.MinLines = dedup.MinLines
	}
	if dedup.Mode != "" {
		defaults.Detection.Mode = dedup.Mode
	}
	if dedup.Language != "" {
		defaults.Detection.Language = dedup.Language
	}
	if dedup.SketchHashes > 0 {
		defaults.Detection.SketchHashes = dedup.SketchHashes
	}

	if dedup.MaxCandidates > 0 {
		defaults.Ranking.MaxCandidates = dedup.MaxCandidates
	}
	if dedup.EnrichmentWorkers > 0 {
		defaults.Ranking.EnrichmentWorkers = dedup.EnrichmentWorkers
	}
	if dedup.EnrichmentTimeoutSeconds > 0 {
		defaults.Ranking.EnrichmentTimeoutSeconds = dedup.EnrichmentTimeoutSeconds
	}

	if dedup.BackupEnabled != nil {
		defaults.Backup.Enabled = *dedup.BackupEnabled
	}
	if dedup.BackupRetentionDays > 0 {
		defaults.Backup.RetentionDays = dedup.BackupRetentionDays
	}

	if dedup.Format != "" {
		defaults.Output.Format = dedup.Format
	}
	if dedup.ShowDetails != nil {
		defaults.Output.ShowDetails = *dedup.ShowDetails
	}
}

// GetSupportedConfigFiles returns the list of supported TOML config files
// in order of precedence
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{
		".refakt.toml",
	}
}
