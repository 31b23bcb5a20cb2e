package domain

import (
	"fmt"
)

// VariationCategory classifies what kind of code element differs between
// two otherwise-similar fragments.
type VariationCategory string

const (
	CategoryLiteral    VariationCategory = "literal"
	CategoryIdentifier VariationCategory = "identifier"
	CategoryType       VariationCategory = "type"
	CategoryExpression VariationCategory = "expression"
	CategoryLogic      VariationCategory = "logic"
)

// VariationSeverity grades how disruptive a variation is to extraction.
type VariationSeverity string

const (
	SeverityLow    VariationSeverity = "low"
	SeverityMedium VariationSeverity = "medium"
	SeverityHigh   VariationSeverity = "high"
)

// ComplexityLevel maps a numeric complexity score onto a coarse level.
type ComplexityLevel string

const (
	ComplexityLow    ComplexityLevel = "low"
	ComplexityMedium ComplexityLevel = "medium"
	ComplexityHigh   ComplexityLevel = "high"
)

// VariationComplexity carries the numeric score, its level, and the
// reasoning behind the score.
type VariationComplexity struct {
	Score     int             `json:"score" yaml:"score"`
	Level     ComplexityLevel `json:"level" yaml:"level"`
	Reasoning string          `json:"reasoning" yaml:"reasoning"`
}

// Variation is one classified difference between two fragments.
type Variation struct {
	Kind               string              `json:"kind" yaml:"kind"`
	OldValue           string              `json:"old_value" yaml:"old_value"`
	NewValue           string              `json:"new_value" yaml:"new_value"`
	Category           VariationCategory   `json:"category" yaml:"category"`
	Severity           VariationSeverity   `json:"severity" yaml:"severity"`
	Parameterizable    bool                `json:"parameterizable" yaml:"parameterizable"`
	SuggestedParamName string              `json:"suggested_param_name" yaml:"suggested_param_name"`
	Complexity         VariationComplexity `json:"complexity" yaml:"complexity"`
}

// String returns string representation of Variation
func (v *Variation) String() string {
	return fmt.Sprintf("%s/%s: %q -> %q", v.Category, v.Severity, v.OldValue, v.NewValue)
}

// RefactoringComplexity summarizes a batch of variations.
type RefactoringComplexity string

const (
	RefactoringComplexityNone   RefactoringComplexity = "none"
	RefactoringComplexityLow    RefactoringComplexity = "low"
	RefactoringComplexityMedium RefactoringComplexity = "medium"
	RefactoringComplexityHigh   RefactoringComplexity = "high"
)

// VariationSummary aggregates a batch classification.
type VariationSummary struct {
	Total                 int                       `json:"total" yaml:"total"`
	ByCategory            map[VariationCategory]int `json:"by_category" yaml:"by_category"`
	BySeverity            map[VariationSeverity]int `json:"by_severity" yaml:"by_severity"`
	ParameterizableCount  int                       `json:"parameterizable_count" yaml:"parameterizable_count"`
	MinComplexity         int                       `json:"min_complexity" yaml:"min_complexity"`
	MaxComplexity         int                       `json:"max_complexity" yaml:"max_complexity"`
	AvgComplexity         float64                   `json:"avg_complexity" yaml:"avg_complexity"`
	RefactoringComplexity RefactoringComplexity     `json:"refactoring_complexity" yaml:"refactoring_complexity"`
}
