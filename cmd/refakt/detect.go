package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
	"github.com/ludo-technologies/refakt/service"
)

// DetectCommand handles the detection-only CLI command. It reports duplicate
// groups without ranking or recommendations.
type DetectCommand struct {
	language        string
	includePatterns []string
	excludePatterns []string

	minSimilarity float64
	minLines      int
	mode          string

	json bool
	yaml bool
	csv  bool

	timeout time.Duration
}

// NewDetectCommand creates a new detect command
func NewDetectCommand() *DetectCommand {
	return &DetectCommand{
		language:      "python",
		minSimilarity: constants.DefaultMinSimilarity,
		minLines:      constants.DefaultMinLines,
		mode:          "hybrid",
		timeout:       5 * time.Minute,
	}
}

// CreateCobraCommand creates the Cobra command for detection
func (c *DetectCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [path]",
		Short: "List duplicate code groups without ranking",
		Long: `Scan the project and report duplicate groups. This is the fast path:
no ranking, coverage lookup, or recommendation generation.

Examples:
  refakt detect .
  refakt detect --min-similarity 0.9 --json src/`,
		Args: cobra.MaximumNArgs(1),
		RunE: c.runDetection,
	}

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
	cmd.Flags().StringVar(&c.mode, "mode", c.mode,
		"Similarity estimator: sequence, sketch, hybrid")
	cmd.Flags().BoolVar(&c.json, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output as YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output as CSV")
	cmd.Flags().DurationVar(&c.timeout, "timeout", c.timeout, "Detection timeout")

	return cmd
}

func (c *DetectCommand) runDetection(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	req := domain.DefaultAnalyzeRequest()
	req.ProjectPath = path
	req.Language = c.language
	req.MinSimilarity = c.minSimilarity
	req.MinLines = c.minLines
	req.SimilarityMode = domain.SimilarityMode(c.mode)
	if len(c.includePatterns) > 0 {
		req.IncludePatterns = c.includePatterns
	}
	if len(c.excludePatterns) > 0 {
		req.ExcludePatterns = c.excludePatterns
	}
	if err := req.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	defer cancel()

	started := time.Now()
	scanner := service.NewCandidateScanner()
	candidates, err := scanner.ScanProject(ctx, req)
	if err != nil {
		return err
	}

	duplicates := service.NewDuplicateService(req.SimilarityMode)
	groups, err := duplicates.Group(ctx, &domain.GroupRequest{
		Candidates:    candidates,
		MinSimilarity: req.MinSimilarity,
		MinLines:      req.MinLines,
	})
	if err != nil {
		return err
	}

	response := &domain.AnalyzeResponse{}
	response.Summary.TotalConstructs = len(candidates)
	response.Summary.DuplicateGroups = len(groups)
	for _, group := range groups {
		response.Summary.TotalDuplicatedLines += group.TotalLines()
		response.Summary.PotentialLineSavings += group.PotentialSavings()
		rg := &domain.ReportedGroup{ID: group.ID, Similarity: group.Similarity}
		for _, cand := range group.Candidates {
			rg.Instances = append(rg.Instances, domain.GroupInstance{
				File:  cand.FilePath,
				Lines: cand.LineRange(),
			})
		}
		response.Groups = append(response.Groups, rg)
	}
	if len(groups) == 0 {
		response.Message = "No duplicate code found"
	}
	response.Summary.AnalysisTimeSeconds = time.Since(started).Seconds()

	formatter := service.NewOutputFormatter()
	return formatter.Format(response, c.outputFormat(), os.Stdout)
}

func (c *DetectCommand) outputFormat() domain.OutputFormat {
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
