package service

import (
	"context"

	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/analyzer"
)

// DuplicateServiceImpl implements the DuplicateService interface
type DuplicateServiceImpl struct {
	grouper   *analyzer.DuplicateGrouper
	estimator *analyzer.SimilarityEstimator
}

// NewDuplicateService creates a new duplicate detection service
func NewDuplicateService(mode domain.SimilarityMode) *DuplicateServiceImpl {
	estimator := analyzer.NewSimilarityEstimator(mode)
	return &DuplicateServiceImpl{
		grouper:   analyzer.NewDuplicateGrouper(estimator),
		estimator: estimator,
	}
}

// Group clusters candidates into duplicate groups
func (s *DuplicateServiceImpl) Group(ctx context.Context, req *domain.GroupRequest) ([]*domain.DuplicateGroup, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewAnalysisError("grouping cancelled", err)
	}
	return s.grouper.Group(req)
}

// EstimateSimilarity computes pairwise similarity between two fragments
func (s *DuplicateServiceImpl) EstimateSimilarity(ctx context.Context, a, b string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, domain.NewAnalysisError("similarity estimation cancelled", err)
	}
	return s.estimator.EstimateSimilarity(a, b), nil
}
