package service

import (
	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/analyzer"
)

// CandidateRankerImpl implements the CandidateRanker interface
type CandidateRankerImpl struct {
	ranker *analyzer.Ranker
}

// NewCandidateRanker creates a new candidate ranker service
func NewCandidateRanker() *CandidateRankerImpl {
	return &CandidateRankerImpl{
		ranker: analyzer.NewRanker(),
	}
}

// Rank orders duplicate groups by refactoring value
func (s *CandidateRankerImpl) Rank(groups []*domain.DuplicateGroup) []*domain.RankedCandidate {
	return s.ranker.Rank(groups)
}

// RecommendationServiceImpl implements the RecommendationService interface
type RecommendationServiceImpl struct {
	engine *analyzer.RecommendationEngine
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService() *RecommendationServiceImpl {
	return &RecommendationServiceImpl{
		engine: analyzer.NewRecommendationEngine(),
	}
}

// Recommend derives refactoring advice for one candidate
func (s *RecommendationServiceImpl) Recommend(input domain.RecommendInput) *domain.Recommendation {
	return s.engine.Recommend(input)
}
