package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads analysis configuration using the TOML-first strategy and
// converts it to a request with defaults filled in.
func (cl *ConfigurationLoaderImpl) LoadConfig(configPath string) (*domain.AnalyzeRequest, error) {
	startDir := configPath
	if startDir == "" {
		startDir = "."
	}
	if info, err := os.Stat(startDir); err == nil && !info.IsDir() {
		startDir = filepath.Dir(startDir)
	}

	tomlLoader := config.NewTomlConfigLoader()
	cfg, err := tomlLoader.LoadConfig(startDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", startDir, err)
	}

	return cl.configToRequest(cfg), nil
}

// SaveConfig writes the request's tunable settings as a .refakt.toml file.
func (cl *ConfigurationLoaderImpl) SaveConfig(req *domain.AnalyzeRequest, configPath string) error {
	if configPath == "" {
		configPath = ".refakt.toml"
	}

	tomlCfg := config.RefaktTomlConfig{
		Detection: config.RefaktTomlDetection{
			MinSimilarity: req.MinSimilarity,
			MinLines:      req.MinLines,
			Mode:          string(req.SimilarityMode),
			Language:      req.Language,
		},
		Ranking: config.RefaktTomlRanking{
			MaxCandidates: req.MaxCandidates,
		},
		Output: config.RefaktTomlOutput{
			Format: string(req.OutputFormat),
		},
		Analysis: config.RefaktTomlAnalysisConfig{
			IncludePatterns: req.IncludePatterns,
			ExcludePatterns: req.ExcludePatterns,
		},
	}

	data, err := toml.Marshal(tomlCfg)
	if err != nil {
		return domain.NewConfigError("failed to encode configuration", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to write %s", configPath), err)
	}
	return nil
}

// MergeConfig merges CLI flag values over a loaded base configuration.
func (cl *ConfigurationLoaderImpl) MergeConfig(base, override *domain.AnalyzeRequest) *domain.AnalyzeRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	if override.ProjectPath != "" {
		merged.ProjectPath = override.ProjectPath
	}
	if override.Language != "" {
		merged.Language = override.Language
	}
	if override.MinSimilarity > 0 {
		merged.MinSimilarity = override.MinSimilarity
	}
	if override.MinLines > 0 {
		merged.MinLines = override.MinLines
	}
	if override.MaxCandidates > 0 {
		merged.MaxCandidates = override.MaxCandidates
	}
	if override.SimilarityMode != "" {
		merged.SimilarityMode = override.SimilarityMode
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	merged.CheckCoverage = override.CheckCoverage
	merged.ShowDetails = override.ShowDetails

	return &merged
}

// configToRequest converts a config.Config to domain.AnalyzeRequest
func (cl *ConfigurationLoaderImpl) configToRequest(cfg *config.Config) *domain.AnalyzeRequest {
	req := domain.DefaultAnalyzeRequest()
	if cfg == nil {
		return req
	}

	req.Language = cfg.Detection.Language
	req.MinSimilarity = cfg.Detection.MinSimilarity
	req.MinLines = cfg.Detection.MinLines
	req.SimilarityMode = domain.SimilarityMode(cfg.Detection.Mode)
	req.MaxCandidates = cfg.Ranking.MaxCandidates
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowDetails = cfg.Output.ShowDetails
	req.IncludePatterns = cfg.Analysis.IncludePatterns
	req.ExcludePatterns = cfg.Analysis.ExcludePatterns

	return req
}
