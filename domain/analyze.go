package domain

import (
	"context"
	"io"
	"os"
)

// OutputFormat selects the output encoding for analysis results.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// Valid reports whether the format is supported.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return true
	}
	return false
}

// SupportedLanguages are the languages the scanner understands. An
// unsupported language downgrades to a warning, not an error.
var SupportedLanguages = map[string]bool{
	"python":     true,
	"javascript": true,
	"typescript": true,
	"go":         true,
}

// AnalyzeRequest configures a full duplication analysis run.
type AnalyzeRequest struct {
	ProjectPath     string       `json:"project_path"`
	Language        string       `json:"language"`
	MinSimilarity   float64      `json:"min_similarity"`
	MinLines        int          `json:"min_lines"`
	MaxCandidates   int          `json:"max_candidates"`
	IncludePatterns []string     `json:"include_patterns"`
	ExcludePatterns []string     `json:"exclude_patterns"`
	CheckCoverage   bool         `json:"check_coverage"`
	SimilarityMode  SimilarityMode `json:"similarity_mode"`

	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowDetails  bool         `json:"show_details"`

	ConfigPath string `json:"config_path"`
}

// Validate validates an analysis request. The project path must exist and
// be a directory; thresholds must sit in their documented ranges.
func (req *AnalyzeRequest) Validate() error {
	if req.ProjectPath == "" {
		return NewValidationError("project_path cannot be empty")
	}
	info, err := os.Stat(req.ProjectPath)
	if err != nil {
		return NewFileNotFoundError(req.ProjectPath, err)
	}
	if !info.IsDir() {
		return NewValidationError("project_path must be a directory: " + req.ProjectPath)
	}
	if req.MinSimilarity < 0.0 || req.MinSimilarity > 1.0 {
		return NewValidationError("min_similarity must be between 0.0 and 1.0")
	}
	if req.MinLines < 1 {
		return NewValidationError("min_lines must be >= 1")
	}
	if req.MaxCandidates < 1 {
		return NewValidationError("max_candidates must be >= 1")
	}
	if req.SimilarityMode != "" && !req.SimilarityMode.Valid() {
		return NewValidationError("similarity_mode must be one of sequence, sketch, hybrid")
	}
	return nil
}

// LanguageSupported reports whether the requested language has a scanner.
func (req *AnalyzeRequest) LanguageSupported() bool {
	if req.Language == "" {
		return true
	}
	return SupportedLanguages[req.Language]
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *AnalyzeRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// AnalysisSummary is the top-level numbers block of a result.
type AnalysisSummary struct {
	TotalConstructs      int     `json:"total_constructs" yaml:"total_constructs"`
	DuplicateGroups      int     `json:"duplicate_groups" yaml:"duplicate_groups"`
	TotalDuplicatedLines int     `json:"total_duplicated_lines" yaml:"total_duplicated_lines"`
	PotentialLineSavings int     `json:"potential_line_savings" yaml:"potential_line_savings"`
	AnalysisTimeSeconds  float64 `json:"analysis_time_seconds" yaml:"analysis_time_seconds"`
}

// GroupInstance is one member of a reported duplication group.
type GroupInstance struct {
	File  string `json:"file" yaml:"file"`
	Lines string `json:"lines" yaml:"lines"` // "start-end"
}

// ReportedGroup is the external view of a duplicate group.
type ReportedGroup struct {
	ID         int             `json:"id" yaml:"id"`
	Similarity float64         `json:"similarity" yaml:"similarity"`
	Instances  []GroupInstance `json:"instances" yaml:"instances"`
}

// AnalyzeResponse is the structured result of an analysis run. A non-empty
// Message distinguishes "nothing found" from a failed operation.
type AnalyzeResponse struct {
	Summary     AnalysisSummary    `json:"summary" yaml:"summary"`
	Groups      []*ReportedGroup   `json:"duplication_groups" yaml:"duplication_groups"`
	Suggestions []*RankedCandidate `json:"refactoring_suggestions" yaml:"refactoring_suggestions"`
	Message     string             `json:"message,omitempty" yaml:"message,omitempty"`
	Warnings    []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Request     *AnalyzeRequest    `json:"request,omitempty" yaml:"request,omitempty"`
}

// ProgressFunc receives (stage, fraction) callbacks. Fraction starts at 0.0
// and ends at 1.0.
type ProgressFunc func(stage string, fraction float64)

// CandidateScanner is the external code-search collaborator that produces
// raw fragments from a project tree.
type CandidateScanner interface {
	// ScanProject extracts candidate fragments from the project.
	ScanProject(ctx context.Context, req *AnalyzeRequest) ([]*CodeCandidate, error)
}

// DuplicateService runs grouping over a candidate set.
type DuplicateService interface {
	// Group clusters candidates into duplicate groups.
	Group(ctx context.Context, req *GroupRequest) ([]*DuplicateGroup, error)

	// EstimateSimilarity computes pairwise similarity between two fragments.
	EstimateSimilarity(ctx context.Context, a, b string) (float64, error)
}

// CandidateRanker orders duplicate groups by refactoring value.
type CandidateRanker interface {
	Rank(groups []*DuplicateGroup) []*RankedCandidate
}

// RecommendationService derives refactoring advice for one candidate.
type RecommendationService interface {
	Recommend(input RecommendInput) *Recommendation
}

// CoverageProvider looks up test coverage for files. Batch lookups
// deduplicate the file list before querying.
type CoverageProvider interface {
	// HasTests reports whether any of the files has test coverage.
	HasTests(ctx context.Context, files []string) (bool, error)
}

// ProgressReporter reports long-running operation progress.
type ProgressReporter interface {
	Start(total int)
	Update(stage string, fraction float64)
	Finish()
}

// ExecutableTask is one unit of work for the parallel executor.
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) error
}

// ParallelExecutor runs tasks with bounded concurrency and per-task
// timeouts. A task's failure never propagates to its siblings.
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) []error
}

// OutputFormatter renders analysis results.
type OutputFormatter interface {
	Format(response *AnalyzeResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader loads and saves analysis configuration.
type ConfigurationLoader interface {
	LoadConfig(configPath string) (*AnalyzeRequest, error)
	SaveConfig(req *AnalyzeRequest, configPath string) error
}
