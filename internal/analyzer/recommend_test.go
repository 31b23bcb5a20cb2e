package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/refakt/domain"
)

func TestRecommend_HighValueGroup(t *testing.T) {
	engine := NewRecommendationEngine()

	rec := engine.Recommend(domain.RecommendInput{
		Score:         85,
		Complexity:    2.0,
		LinesSaved:    30,
		HasTests:      true,
		AffectedFiles: 3,
	})

	assert.Equal(t, domain.PriorityHigh, rec.Priority)
	assert.Equal(t, "High Value: Extract to shared utility", rec.Text)
	require.Len(t, rec.Strategies, 3)

	// extract_function: 90 - 16 + 9 = 83 beats extract_class 16 + 30 = 46
	// and inline 100 - 85 = 15.
	top := rec.TopStrategy()
	require.NotNil(t, top)
	assert.Equal(t, domain.StrategyExtractFunction, top.Name)
	assert.InDelta(t, 83.0, top.Suitability, 1e-9)
	assert.Equal(t, domain.EffortLow, top.Effort)
	assert.Equal(t, domain.RiskLow, top.Risk)

	assert.Equal(t, domain.StrategyExtractClass, rec.Strategies[1].Name)
	assert.InDelta(t, 46.0, rec.Strategies[1].Suitability, 1e-9)
	assert.Equal(t, domain.StrategyInline, rec.Strategies[2].Name)
	assert.InDelta(t, 15.0, rec.Strategies[2].Suitability, 1e-9)

	// 30 + 3*5, no coverage discount.
	assert.InDelta(t, 45.0, rec.EffortValueRatio, 1e-9)
}

func TestRecommend_MediumValueGroup(t *testing.T) {
	engine := NewRecommendationEngine()

	rec := engine.Recommend(domain.RecommendInput{
		Score:         60,
		Complexity:    4.0,
		LinesSaved:    12,
		HasTests:      true,
		AffectedFiles: 2,
	})

	assert.Equal(t, domain.PriorityMedium, rec.Priority)
	assert.Equal(t, "Medium Value: Consider refactoring", rec.Text)
}

func TestRecommend_LowValueGroupPrefersInline(t *testing.T) {
	engine := NewRecommendationEngine()

	rec := engine.Recommend(domain.RecommendInput{
		Score:         35,
		Complexity:    5.0,
		LinesSaved:    4,
		HasTests:      false,
		AffectedFiles: 1,
	})

	assert.Equal(t, domain.PriorityLow, rec.Priority)

	// inline 100 - 35 = 65 beats extract_function 90 - 40 + 3 = 53 and
	// extract_class 40 + 4 = 44.
	top := rec.TopStrategy()
	require.NotNil(t, top)
	assert.Equal(t, domain.StrategyInline, top.Name)
	assert.InDelta(t, 65.0, top.Suitability, 1e-9)
	assert.Equal(t, domain.EffortNone, top.Effort)
	assert.Equal(t, domain.RiskNone, top.Risk)
}

func TestRecommend_MissingCoverageRaisesRiskAndEffort(t *testing.T) {
	engine := NewRecommendationEngine()

	rec := engine.Recommend(domain.RecommendInput{
		Score:         70,
		Complexity:    2.0,
		LinesSaved:    10,
		HasTests:      false,
		AffectedFiles: 2,
	})

	for _, s := range rec.Strategies {
		if s.Name == domain.StrategyInline {
			continue
		}
		assert.Equal(t, domain.RiskMedium, s.Risk, "strategy %s", s.Name)
	}

	// (10 + 2*5) * 0.6
	assert.InDelta(t, 12.0, rec.EffortValueRatio, 1e-9)
}

func TestRecommend_ExtractClassSavingsCapped(t *testing.T) {
	engine := NewRecommendationEngine()

	rec := engine.Recommend(domain.RecommendInput{
		Score:         90,
		Complexity:    6.0,
		LinesSaved:    120,
		HasTests:      true,
		AffectedFiles: 4,
	})

	var extractClass *domain.Strategy
	for _, s := range rec.Strategies {
		if s.Name == domain.StrategyExtractClass {
			extractClass = s
		}
	}
	require.NotNil(t, extractClass)
	// 6*8 + capped 40.
	assert.InDelta(t, 88.0, extractClass.Suitability, 1e-9)
	assert.Equal(t, domain.EffortMedium, extractClass.Effort)
}

func TestClampSuitability(t *testing.T) {
	assert.Equal(t, 0.0, clampSuitability(-5))
	assert.Equal(t, 100.0, clampSuitability(140))
	assert.Equal(t, 55.5, clampSuitability(55.5))
}
