package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ludo-technologies/refakt/domain"
)

// AnalyzeUseCase orchestrates the full duplication analysis workflow:
// scan, group, rank, enrich, report.
type AnalyzeUseCase struct {
	scanner    domain.CandidateScanner
	duplicates domain.DuplicateService
	ranker     domain.CandidateRanker
	recommends domain.RecommendationService
	coverage   domain.CoverageProvider
	executor   domain.ParallelExecutor
	formatter  domain.OutputFormatter
	progress   domain.ProgressReporter
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase(
	scanner domain.CandidateScanner,
	duplicates domain.DuplicateService,
	ranker domain.CandidateRanker,
	recommends domain.RecommendationService,
	coverage domain.CoverageProvider,
	executor domain.ParallelExecutor,
	formatter domain.OutputFormatter,
	progress domain.ProgressReporter,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		scanner:    scanner,
		duplicates: duplicates,
		ranker:     ranker,
		recommends: recommends,
		coverage:   coverage,
		executor:   executor,
		formatter:  formatter,
		progress:   progress,
	}
}

// Execute performs the complete analysis workflow and writes the formatted
// result to the request's output writer.
func (uc *AnalyzeUseCase) Execute(ctx context.Context, req *domain.AnalyzeRequest) error {
	response, err := uc.Analyze(ctx, req)
	if err != nil {
		return err
	}
	if err := uc.formatter.Format(response, req.OutputFormat, req.OutputWriter); err != nil {
		return domain.NewOutputError("failed to write output", err)
	}
	return nil
}

// Analyze runs the pipeline and returns the structured response.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.AnalyzeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	response := &domain.AnalyzeResponse{Request: req}
	if !req.LanguageSupported() {
		// An unsupported language degrades the run, it does not abort it.
		response.Warnings = append(response.Warnings,
			fmt.Sprintf("language %q is not supported; results may be incomplete", req.Language))
	}

	started := time.Now()
	if uc.progress != nil {
		uc.progress.Start(1)
		defer uc.progress.Finish()
	}

	uc.report("Scanning project", 0.0)
	candidates, err := uc.scanner.ScanProject(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("project scan failed", err)
	}
	response.Summary.TotalConstructs = len(candidates)

	uc.report("Finding duplicate code", 0.3)
	groups, err := uc.duplicates.Group(ctx, &domain.GroupRequest{
		Candidates:    candidates,
		MinSimilarity: req.MinSimilarity,
		MinLines:      req.MinLines,
	})
	if err != nil {
		return nil, domain.NewAnalysisError("duplicate grouping failed", err)
	}

	if len(groups) == 0 {
		response.Message = "No duplicate code found"
		response.Summary.AnalysisTimeSeconds = time.Since(started).Seconds()
		uc.report("Analysis complete", 1.0)
		return response, nil
	}

	uc.report("Ranking candidates", 0.6)
	ranked := uc.ranker.Rank(groups)

	top := ranked
	if len(top) > req.MaxCandidates {
		top = top[:req.MaxCandidates]
	}

	uc.report("Generating recommendations", 0.8)
	uc.enrich(ctx, req, top)

	response.Groups = reportGroups(groups)
	response.Suggestions = top
	response.Summary.DuplicateGroups = len(groups)
	for _, group := range groups {
		response.Summary.TotalDuplicatedLines += group.TotalLines()
		response.Summary.PotentialLineSavings += group.PotentialSavings()
	}
	response.Summary.AnalysisTimeSeconds = time.Since(started).Seconds()

	uc.report("Analysis complete", 1.0)
	return response, nil
}

// enrich resolves test coverage with one batched lookup, then generates a
// recommendation per candidate. A single candidate runs inline; larger
// batches go through the worker pool. A failed enrichment marks its
// candidate with a fallback recommendation and leaves the others intact.
func (uc *AnalyzeUseCase) enrich(ctx context.Context, req *domain.AnalyzeRequest, candidates []*domain.RankedCandidate) {
	if err := uc.lookupCoverage(ctx, req, candidates); err != nil {
		for _, c := range candidates {
			markEnrichmentFailed(c, err)
		}
		return
	}

	tasks := make([]domain.ExecutableTask, len(candidates))
	for i, candidate := range candidates {
		c := candidate
		tasks[i] = &enrichmentTask{
			name: fmt.Sprintf("enrich-group-%d", c.Group.ID),
			run: func(taskCtx context.Context) error {
				return uc.enrichOne(taskCtx, c)
			},
		}
	}

	var errs []error
	if len(tasks) == 1 {
		errs = []error{tasks[0].Execute(ctx)}
	} else {
		errs = uc.executor.Execute(ctx, tasks)
	}
	for i, err := range errs {
		if err != nil {
			markEnrichmentFailed(candidates[i], err)
		}
	}
}

// lookupCoverage queries test coverage once over the distinct files of all
// candidates and writes the shared result back onto each of them.
func (uc *AnalyzeUseCase) lookupCoverage(ctx context.Context, req *domain.AnalyzeRequest, candidates []*domain.RankedCandidate) error {
	if !req.CheckCoverage || uc.coverage == nil {
		return nil
	}

	seen := make(map[string]bool)
	files := []string{}
	for _, c := range candidates {
		for _, file := range uniqueFiles(c.Group) {
			if !seen[file] {
				seen[file] = true
				files = append(files, file)
			}
		}
	}

	hasTests, err := uc.coverage.HasTests(ctx, files)
	if err != nil {
		return err
	}
	for _, c := range candidates {
		c.HasTests = hasTests
	}
	return nil
}

func (uc *AnalyzeUseCase) enrichOne(ctx context.Context, candidate *domain.RankedCandidate) error {
	candidate.Recommendation = uc.recommends.Recommend(domain.RecommendInput{
		Score:         candidate.Score,
		Complexity:    candidate.ComplexityScore,
		LinesSaved:    candidate.LinesSaved,
		HasTests:      candidate.HasTests,
		AffectedFiles: len(uniqueFiles(candidate.Group)),
	})
	return nil
}

// markEnrichmentFailed records the failure and substitutes a minimal
// recommendation so downstream consumers never see a half-enriched record.
func markEnrichmentFailed(candidate *domain.RankedCandidate, err error) {
	candidate.EnrichmentError = err.Error()
	candidate.Recommendation = &domain.Recommendation{
		Text:     "Enrichment unavailable; review this group manually",
		Priority: domain.PriorityLow,
	}
}

func (uc *AnalyzeUseCase) report(stage string, fraction float64) {
	if uc.progress != nil {
		uc.progress.Update(stage, fraction)
	}
}

// uniqueFiles returns the distinct file paths of a group's members,
// preserving first-seen order.
func uniqueFiles(group *domain.DuplicateGroup) []string {
	seen := make(map[string]bool, len(group.Candidates))
	files := make([]string, 0, len(group.Candidates))
	for _, c := range group.Candidates {
		if !seen[c.FilePath] {
			seen[c.FilePath] = true
			files = append(files, c.FilePath)
		}
	}
	return files
}

// reportGroups converts internal groups into the external report shape.
func reportGroups(groups []*domain.DuplicateGroup) []*domain.ReportedGroup {
	reported := make([]*domain.ReportedGroup, 0, len(groups))
	for _, group := range groups {
		rg := &domain.ReportedGroup{
			ID:         group.ID,
			Similarity: group.Similarity,
		}
		for _, c := range group.Candidates {
			rg.Instances = append(rg.Instances, domain.GroupInstance{
				File:  c.FilePath,
				Lines: c.LineRange(),
			})
		}
		reported = append(reported, rg)
	}
	return reported
}

// enrichmentTask adapts a closure to the ExecutableTask interface.
type enrichmentTask struct {
	name string
	run  func(context.Context) error
}

func (t *enrichmentTask) Name() string { return t.name }

func (t *enrichmentTask) Execute(ctx context.Context) error {
	return t.run(ctx)
}
