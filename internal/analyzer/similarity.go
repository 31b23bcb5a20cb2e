package analyzer

import (
	"github.com/ludo-technologies/refakt/domain"
	"github.com/ludo-technologies/refakt/internal/constants"
)

// SimilarityEstimator computes pairwise similarity between code blocks.
// The mode is fixed per instance; callers needing exactness construct a
// sequence-mode estimator explicitly.
type SimilarityEstimator struct {
	mode     domain.SimilarityMode
	sketcher *Sketcher
}

// NewSimilarityEstimator creates an estimator for the given mode. An empty
// mode falls back to the hybrid estimator.
func NewSimilarityEstimator(mode domain.SimilarityMode) *SimilarityEstimator {
	if mode == "" {
		mode = domain.SimilarityHybrid
	}
	return &SimilarityEstimator{
		mode:     mode,
		sketcher: NewSketcher(constants.DefaultSketchHashes, constants.DefaultShingleSize),
	}
}

// Mode returns the estimator's fixed mode.
func (e *SimilarityEstimator) Mode() domain.SimilarityMode {
	return e.mode
}

// EstimateSimilarity returns a similarity in [0, 1]. Two empty blocks are
// identical (1.0); empty versus non-empty is 0.0.
func (e *SimilarityEstimator) EstimateSimilarity(a, b string) float64 {
	linesA := NormalizeBlock(a)
	linesB := NormalizeBlock(b)

	if len(linesA) == 0 && len(linesB) == 0 {
		return 1.0
	}
	if len(linesA) == 0 || len(linesB) == 0 {
		return 0.0
	}

	switch e.mode {
	case domain.SimilaritySequence:
		return sequenceRatio(linesA, linesB)
	case domain.SimilaritySketch:
		return e.sketchRatio(linesA, linesB)
	default:
		seq := sequenceRatio(linesA, linesB)
		sk := e.sketchRatio(linesA, linesB)
		return constants.HybridSequenceWeight*seq + constants.HybridSketchWeight*sk
	}
}

func (e *SimilarityEstimator) sketchRatio(linesA, linesB []string) float64 {
	sa := e.sketcher.ComputeSketch(linesA)
	sb := e.sketcher.ComputeSketch(linesB)
	return e.sketcher.EstimateSimilarity(sa, sb)
}

// sequenceRatio is the exact line-sequence similarity
// 2*LCS / (len(a)+len(b)), the classic difflib ratio over whole lines.
func sequenceRatio(a, b []string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	common := lcsLength(a, b)
	return 2.0 * float64(common) / float64(total)
}

// lcsLength computes the longest common subsequence length with a
// two-row DP table.
func lcsLength(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
