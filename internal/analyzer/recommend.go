package analyzer

import (
	"sort"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
)

// RecommendationEngine turns a score/complexity/coverage/file-count tuple
// into a priority, an effort/value ratio, and a ranked set of strategies.
type RecommendationEngine struct{}

// NewRecommendationEngine creates a new recommendation engine
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{}
}

// Recommend produces the full advice for one candidate. Exactly three
// strategies are always returned, sorted by suitability descending.
func (re *RecommendationEngine) Recommend(input domain.RecommendInput) *domain.Recommendation {
	rec := &domain.Recommendation{
		EffortValueRatio: re.effortValueRatio(input),
	}

	switch {
	case input.Score > constants.HighValueScoreThreshold:
		rec.Priority = domain.PriorityHigh
		rec.Text = "High Value: Extract to shared utility"
	case input.Score >= constants.MediumValueScoreThreshold:
		rec.Priority = domain.PriorityMedium
		rec.Text = "Medium Value: Consider refactoring"
	default:
		rec.Priority = domain.PriorityLow
		rec.Text = "Low Value: May not be worth refactoring"
	}

	rec.Strategies = []*domain.Strategy{
		re.extractFunction(input),
		re.extractClass(input),
		re.inline(input),
	}
	sort.SliceStable(rec.Strategies, func(i, j int) bool {
		return rec.Strategies[i].Suitability > rec.Strategies[j].Suitability
	})

	return rec
}

// effortValueRatio rises with lines saved and affected files; missing test
// coverage raises perceived effort and pulls the ratio down.
func (re *RecommendationEngine) effortValueRatio(input domain.RecommendInput) float64 {
	ratio := float64(input.LinesSaved) + float64(input.AffectedFiles)*5.0
	if !input.HasTests {
		ratio *= 0.6
	}
	return ratio
}

// extractFunction suits low-complexity duplicates spread across many files.
func (re *RecommendationEngine) extractFunction(input domain.RecommendInput) *domain.Strategy {
	suitability := 90.0 - input.Complexity*8.0 + float64(input.AffectedFiles)*3.0
	s := &domain.Strategy{
		Name:        domain.StrategyExtractFunction,
		Suitability: clampSuitability(suitability),
		BestFor:     "Duplicated logic shared across multiple call sites",
	}
	if input.Complexity < constants.LowComplexityThreshold {
		s.Effort = domain.EffortLow
	} else {
		s.Effort = domain.EffortMedium
	}
	if input.HasTests {
		s.Risk = domain.RiskLow
	} else {
		s.Risk = domain.RiskMedium
	}
	return s
}

// extractClass suits complex duplicates with large savings.
func (re *RecommendationEngine) extractClass(input domain.RecommendInput) *domain.Strategy {
	saved := float64(input.LinesSaved)
	if saved > 40 {
		saved = 40
	}
	s := &domain.Strategy{
		Name:        domain.StrategyExtractClass,
		Suitability: clampSuitability(input.Complexity*8.0 + saved),
		Effort:      domain.EffortMedium,
		BestFor:     "Related duplicated behavior that shares state",
	}
	if input.HasTests {
		s.Risk = domain.RiskLow
	} else {
		s.Risk = domain.RiskMedium
	}
	return s
}

// inline suits low-value groups where keeping the duplication is cheaper
// than abstracting it.
func (re *RecommendationEngine) inline(input domain.RecommendInput) *domain.Strategy {
	return &domain.Strategy{
		Name:        domain.StrategyInline,
		Suitability: clampSuitability(100.0 - input.Score),
		Effort:      domain.EffortNone,
		Risk:        domain.RiskNone,
		BestFor:     "Small duplicates where abstraction costs more than it saves",
	}
}

func clampSuitability(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
