package domain

import (
	"github.com/ludo-technologies/refakt/internal/constants"
)

// DefaultAnalyzeRequest returns a default analysis request
func DefaultAnalyzeRequest() *AnalyzeRequest {
	return &AnalyzeRequest{
		ProjectPath:     ".",
		Language:        "python",
		MinSimilarity:   constants.DefaultMinSimilarity,
		MinLines:        constants.DefaultMinLines,
		MaxCandidates:   constants.DefaultMaxCandidates,
		IncludePatterns: []string{},
		ExcludePatterns: []string{"**/node_modules/**", "**/.git/**", "**/" + constants.BackupDirName + "/**"},
		CheckCoverage:   true,
		SimilarityMode:  SimilarityHybrid,
		OutputFormat:    OutputFormatText,
		ShowDetails:     false,
	}
}

// DefaultGroupRequest returns a default grouping request
func DefaultGroupRequest() *GroupRequest {
	return &GroupRequest{
		MinSimilarity: constants.DefaultMinSimilarity,
		MinLines:      constants.DefaultMinLines,
	}
}
