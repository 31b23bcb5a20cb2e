package domain

import (
	"fmt"
)

// Priority labels a recommendation's urgency.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// StrategyName is a closed set of refactoring strategies.
type StrategyName string

const (
	StrategyExtractFunction StrategyName = "extract_function"
	StrategyExtractClass    StrategyName = "extract_class"
	StrategyInline          StrategyName = "inline"
)

// EffortLevel grades the work a strategy demands.
type EffortLevel string

const (
	EffortNone   EffortLevel = "none"
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
)

// RiskLevel grades the regression risk a strategy carries.
type RiskLevel string

const (
	RiskNone   RiskLevel = "none"
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
)

// Strategy is one candidate refactoring approach with its suitability.
type Strategy struct {
	Name        StrategyName `json:"name" yaml:"name"`
	Suitability float64      `json:"suitability" yaml:"suitability"` // 0-100
	Effort      EffortLevel  `json:"effort" yaml:"effort"`
	Risk        RiskLevel    `json:"risk" yaml:"risk"`
	BestFor     string       `json:"best_for" yaml:"best_for"`
}

// Recommendation is the full refactoring advice for one duplicate group.
type Recommendation struct {
	Text             string      `json:"text" yaml:"text"`
	Priority         Priority    `json:"priority" yaml:"priority"`
	Strategies       []*Strategy `json:"strategies" yaml:"strategies"`
	EffortValueRatio float64     `json:"effort_value_ratio" yaml:"effort_value_ratio"`
}

// TopStrategy returns the highest-suitability strategy, or nil.
func (r *Recommendation) TopStrategy() *Strategy {
	if len(r.Strategies) == 0 {
		return nil
	}
	return r.Strategies[0]
}

// RankedCandidate pairs a duplicate group with its refactoring value.
type RankedCandidate struct {
	Group           *DuplicateGroup `json:"group" yaml:"group"`
	Score           float64         `json:"score" yaml:"score"`                       // 0-100
	ComplexityScore float64         `json:"complexity_score" yaml:"complexity_score"` // 0-10
	LinesSaved      int             `json:"lines_saved" yaml:"lines_saved"`
	HasTests        bool            `json:"has_tests" yaml:"has_tests"`
	Recommendation  *Recommendation `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
	EnrichmentError string          `json:"enrichment_error,omitempty" yaml:"enrichment_error,omitempty"`
}

// String returns string representation of RankedCandidate
func (rc *RankedCandidate) String() string {
	return fmt.Sprintf("RankedCandidate{group: %d, score: %.1f, saved: %d}",
		rc.Group.ID, rc.Score, rc.LinesSaved)
}

// RecommendInput is the tuple the recommendation engine consumes.
type RecommendInput struct {
	Score         float64 `json:"score"`
	Complexity    float64 `json:"complexity"`
	LinesSaved    int     `json:"lines_saved"`
	HasTests      bool    `json:"has_tests"`
	AffectedFiles int     `json:"affected_files"`
}
