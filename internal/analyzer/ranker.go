package analyzer

import (
	"sort"
	"strings"

	"github.com/ludo-technologies/refakt/domain"
)

// Ranker scores duplicate groups by estimated refactoring value and orders
// them descending by score.
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank converts groups into ranked candidates sorted by score descending.
// Ties keep input order so results stay deterministic.
func (r *Ranker) Rank(groups []*domain.DuplicateGroup) []*domain.RankedCandidate {
	ranked := make([]*domain.RankedCandidate, 0, len(groups))
	for _, group := range groups {
		complexity := r.estimateComplexity(group)
		linesSaved := group.PotentialSavings()
		ranked = append(ranked, &domain.RankedCandidate{
			Group:           group,
			Score:           r.score(group, linesSaved, complexity),
			ComplexityScore: complexity,
			LinesSaved:      linesSaved,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// score combines savings, instance count, aggregate similarity, and a
// complexity penalty into a 0-100 value.
func (r *Ranker) score(group *domain.DuplicateGroup, linesSaved int, complexity float64) float64 {
	savings := float64(linesSaved) * 2.0
	if savings > 60 {
		savings = 60
	}

	instances := 10.0 + float64(group.Size-2)*5.0
	if instances > 20 {
		instances = 20
	}

	similarity := group.Similarity * 20.0

	score := savings + instances + similarity - complexity*2.0
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// estimateComplexity derives a 0-10 complexity from fragment size and
// nesting depth. Bigger, deeper fragments are harder to extract cleanly.
func (r *Ranker) estimateComplexity(group *domain.DuplicateGroup) float64 {
	if group.Size == 0 {
		return 0
	}

	maxNesting := 0
	for _, c := range group.Candidates {
		if n := nestingLevels(c.Text); n > maxNesting {
			maxNesting = n
		}
	}

	complexity := group.AverageLines*0.15 + float64(maxNesting)*1.5
	if complexity > 10 {
		complexity = 10
	}
	return complexity
}

// nestingLevels estimates nesting from indentation steps of four columns.
func nestingLevels(text string) int {
	deepest := 0
	base := -1
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		depth := indentationDepth(line)
		if base < 0 || depth < base {
			base = depth
		}
		if depth > deepest {
			deepest = depth
		}
	}
	if base < 0 {
		return 0
	}
	return (deepest - base) / 4
}
