package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ludo-technologies/refakt/internal/constants"
)

// Config represents the main configuration structure
type Config struct {
	// Detection holds duplicate detection configuration
	Detection DetectionConfig `mapstructure:"detection" yaml:"detection"`

	// Ranking holds candidate ranking configuration
	Ranking RankingConfig `mapstructure:"ranking" yaml:"ranking"`

	// Backup holds backup and rollback configuration
	Backup BackupConfig `mapstructure:"backup" yaml:"backup"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Analysis holds general analysis configuration
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
}

// DetectionConfig holds configuration for duplicate detection
type DetectionConfig struct {
	// MinSimilarity is the similarity threshold for grouping, in [0, 1]
	MinSimilarity float64 `mapstructure:"min_similarity" yaml:"min_similarity"`

	// MinLines is the minimum non-empty line count for a candidate
	MinLines int `mapstructure:"min_lines" yaml:"min_lines"`

	// Mode selects the similarity estimator: sequence, sketch, hybrid
	Mode string `mapstructure:"mode" yaml:"mode"`

	// Language is the source language of the analyzed project
	Language string `mapstructure:"language" yaml:"language"`

	// SketchHashes is the MinHash signature width
	SketchHashes int `mapstructure:"sketch_hashes" yaml:"sketch_hashes"`
}

// RankingConfig holds configuration for candidate ranking and enrichment
type RankingConfig struct {
	// MaxCandidates caps how many ranked groups are reported
	MaxCandidates int `mapstructure:"max_candidates" yaml:"max_candidates"`

	// EnrichmentWorkers sizes the parallel enrichment pool
	EnrichmentWorkers int `mapstructure:"enrichment_workers" yaml:"enrichment_workers"`

	// EnrichmentTimeoutSeconds bounds each enrichment task
	EnrichmentTimeoutSeconds int `mapstructure:"enrichment_timeout_seconds" yaml:"enrichment_timeout_seconds"`
}

// BackupConfig holds configuration for the backup manager
type BackupConfig struct {
	// Enabled controls whether apply operations snapshot files first
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// RetentionDays is the cleanup window for old backups
	RetentionDays int `mapstructure:"retention_days" yaml:"retention_days"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether per-instance detail is printed
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details"`
}

// AnalysisConfig holds general analysis configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are scanned recursively
	Recursive bool `mapstructure:"recursive" yaml:"recursive"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Detection: DetectionConfig{
			MinSimilarity: constants.DefaultMinSimilarity,
			MinLines:      constants.DefaultMinLines,
			Mode:          "hybrid",
			Language:      "python",
			SketchHashes:  constants.DefaultSketchHashes,
		},
		Ranking: RankingConfig{
			MaxCandidates:            constants.DefaultMaxCandidates,
			EnrichmentWorkers:        constants.DefaultEnrichmentWorkers,
			EnrichmentTimeoutSeconds: constants.DefaultEnrichmentTimeoutSeconds,
		},
		Backup: BackupConfig{
			Enabled:       true,
			RetentionDays: constants.DefaultBackupRetentionDays,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{
				"**/node_modules/**",
				"**/.git/**",
				"**/" + constants.BackupDirName + "/**",
			},
			Recursive: true,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = findDefaultConfig()
	}
	if configPath == "" {
		return config, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// findDefaultConfig looks for default configuration files in common locations
func findDefaultConfig() string {
	candidates := []string{
		"refakt.yaml",
		"refakt.yml",
		".refakt.yaml",
		".refakt.yml",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		for _, candidate := range candidates {
			path := filepath.Join(home, candidate)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Detection.MinSimilarity < 0 || c.Detection.MinSimilarity > 1 {
		return fmt.Errorf("detection.min_similarity must be in [0, 1], got %.2f", c.Detection.MinSimilarity)
	}
	if c.Detection.MinLines < 1 {
		return fmt.Errorf("detection.min_lines must be >= 1, got %d", c.Detection.MinLines)
	}

	validModes := map[string]bool{
		"sequence": true,
		"sketch":   true,
		"hybrid":   true,
	}
	if !validModes[c.Detection.Mode] {
		return fmt.Errorf("invalid detection.mode '%s', must be one of: sequence, sketch, hybrid", c.Detection.Mode)
	}

	if c.Ranking.MaxCandidates < 1 {
		return fmt.Errorf("ranking.max_candidates must be >= 1, got %d", c.Ranking.MaxCandidates)
	}
	if c.Ranking.EnrichmentWorkers < 1 {
		return fmt.Errorf("ranking.enrichment_workers must be >= 1, got %d", c.Ranking.EnrichmentWorkers)
	}

	if c.Backup.RetentionDays < 1 {
		return fmt.Errorf("backup.retention_days must be >= 1, got %d", c.Backup.RetentionDays)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	return nil
}
