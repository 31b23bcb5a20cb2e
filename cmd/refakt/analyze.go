package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/app"
	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
	"github.com/ludo-technologies/refakt/service"
)

// AnalyzeCommand handles the full analysis CLI command
type AnalyzeCommand struct {
	// Input parameters
	configFile      string
	language        string
	includePatterns []string
	excludePatterns []string

	// Analysis configuration
	minSimilarity float64
	minLines      int
	maxCandidates int
	mode          string
	checkCoverage bool

	// Output format flags (only one should be true)
	json bool
	yaml bool
	csv  bool

	// Output options
	showDetails bool
	noProgress  bool

	// Performance options
	timeout time.Duration
}

// NewAnalyzeCommand creates a new analyze command
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{
		language:      "python",
		minSimilarity: constants.DefaultMinSimilarity,
		minLines:      constants.DefaultMinLines,
		maxCandidates: constants.DefaultMaxCandidates,
		mode:          "hybrid",
		checkCoverage: true,
		timeout:       5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for analysis
func (c *AnalyzeCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [path]",
		Short: "Find duplicate code and rank refactoring opportunities",
		Long: `Run the full duplication analysis pipeline: scan the project for
candidate fragments, group near-duplicates, rank the groups by refactoring
value, and attach strategy recommendations to the top candidates.

Examples:
  # Analyze the current directory
  refakt analyze .

  # Analyze with a stricter similarity threshold
  refakt analyze --min-similarity 0.9 src/

  # Emit machine-readable output
  refakt analyze --json src/ > report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runAnalysis,
	}

	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")
	cmd.Flags().StringVarP(&c.language, "language", "l", c.language,
		"Source language (python, javascript, typescript, go)")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

	cmd.Flags().Float64VarP(&c.minSimilarity, "min-similarity", "s", c.minSimilarity,
		"Minimum similarity for grouping (0.0-1.0)")
	cmd.Flags().IntVar(&c.minLines, "min-lines", c.minLines,
		"Minimum number of non-empty lines for candidates")
	cmd.Flags().IntVar(&c.maxCandidates, "max-candidates", c.maxCandidates,
		"Maximum number of ranked suggestions to report")
	cmd.Flags().StringVar(&c.mode, "mode", c.mode,
		"Similarity estimator: sequence, sketch, hybrid")
	cmd.Flags().BoolVar(&c.checkCoverage, "check-coverage", c.checkCoverage,
		"Look up test coverage for suggested candidates")

	cmd.Flags().BoolVar(&c.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output as CSV")
	cmd.Flags().BoolVar(&c.showDetails, "details", false, "Show per-instance details")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false, "Disable the progress bar")

	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout, "Analysis timeout")

	return cmd
}

func (c *AnalyzeCommand) runAnalysis(cmd *cobra.Command, args []string) error {
	req, err := c.buildRequest(args, GetExplicitFlags(cmd))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	var progress domain.ProgressReporter
	if c.noProgress {
		progress = service.NewNoOpProgressReporter()
	} else {
		progress = service.NewProgressReporter()
	}

	useCase := app.NewAnalyzeUseCase(
		service.NewCandidateScanner(),
		service.NewDuplicateService(req.SimilarityMode),
		service.NewCandidateRanker(),
		service.NewRecommendationService(),
		service.NewCoverageProvider(),
		service.NewParallelExecutor(),
		service.NewOutputFormatter(),
		progress,
	)

	return useCase.Execute(ctx, req)
}

// buildRequest merges the config file settings with CLI flags. Boolean flags
// only win over the config file when set explicitly.
func (c *AnalyzeCommand) buildRequest(args []string, explicit map[string]bool) (*domain.AnalyzeRequest, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfig(firstNonEmpty(c.configFile, path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if !explicit["check-coverage"] {
		c.checkCoverage = base.CheckCoverage
	}
	if !explicit["details"] {
		c.showDetails = base.ShowDetails
	}

	override := &domain.AnalyzeRequest{
		ProjectPath:     path,
		Language:        c.language,
		MinSimilarity:   c.minSimilarity,
		MinLines:        c.minLines,
		MaxCandidates:   c.maxCandidates,
		SimilarityMode:  domain.SimilarityMode(c.mode),
		IncludePatterns: c.includePatterns,
		ExcludePatterns: c.excludePatterns,
		CheckCoverage:   c.checkCoverage,
		OutputFormat:    c.outputFormat(),
		OutputWriter:    os.Stdout,
		ShowDetails:     c.showDetails,
		ConfigPath:      c.configFile,
	}

	return loader.MergeConfig(base, override), nil
}

func (c *AnalyzeCommand) outputFormat() domain.OutputFormat {
	switch {
	case c.json:
		return domain.OutputFormatJSON
	case c.yaml:
		return domain.OutputFormatYAML
	case c.csv:
		return domain.OutputFormatCSV
	default:
		return domain.OutputFormatText
	}
}
