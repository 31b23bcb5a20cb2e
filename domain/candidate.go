package domain

import (
	"fmt"
	"strings"
)

// CodeCandidate is a raw code fragment extracted by the scanner.
// Immutable once created.
type CodeCandidate struct {
	ID        string `json:"id" yaml:"id"`
	FilePath  string `json:"file_path" yaml:"file_path"`
	Text      string `json:"text" yaml:"text"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
	Language  string `json:"language" yaml:"language"`
}

// String returns string representation of CodeCandidate
func (c *CodeCandidate) String() string {
	return fmt.Sprintf("%s:%d-%d", c.FilePath, c.StartLine, c.EndLine)
}

// LineCount returns the number of non-empty lines in the candidate text.
// Blank lines do not count toward the minimum-length filter.
func (c *CodeCandidate) LineCount() int {
	count := 0
	for _, line := range strings.Split(c.Text, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// LineRange returns the "start-end" range string used in analysis output.
func (c *CodeCandidate) LineRange() string {
	return fmt.Sprintf("%d-%d", c.StartLine, c.EndLine)
}

// DuplicateGroup is an ordered set of mutually similar candidates.
// Every group holds at least two members; order derives from input order.
type DuplicateGroup struct {
	ID           int              `json:"id" yaml:"id"`
	Candidates   []*CodeCandidate `json:"candidates" yaml:"candidates"`
	Similarity   float64          `json:"similarity" yaml:"similarity"`
	AverageLines float64          `json:"average_lines" yaml:"average_lines"`
	Size         int              `json:"size" yaml:"size"`
}

// String returns string representation of DuplicateGroup
func (g *DuplicateGroup) String() string {
	return fmt.Sprintf("DuplicateGroup{ID: %d, Size: %d, Similarity: %.3f}", g.ID, g.Size, g.Similarity)
}

// AddCandidate adds a candidate to the group
func (g *DuplicateGroup) AddCandidate(c *CodeCandidate) {
	g.Candidates = append(g.Candidates, c)
	g.Size = len(g.Candidates)
}

// Contains reports whether the group already holds the candidate.
func (g *DuplicateGroup) Contains(id string) bool {
	for _, c := range g.Candidates {
		if c.ID == id {
			return true
		}
	}
	return false
}

// TotalLines sums the line counts of all members.
func (g *DuplicateGroup) TotalLines() int {
	total := 0
	for _, c := range g.Candidates {
		total += c.LineCount()
	}
	return total
}

// PotentialSavings estimates lines removed by collapsing all members into
// one shared implementation.
func (g *DuplicateGroup) PotentialSavings() int {
	if g.Size < 2 {
		return 0
	}
	avg := g.TotalLines() / g.Size
	return avg * (g.Size - 1)
}

// GroupRequest holds the grouping parameters.
type GroupRequest struct {
	Candidates    []*CodeCandidate `json:"candidates"`
	MinSimilarity float64          `json:"min_similarity"`
	MinLines      int              `json:"min_lines"`
}

// Validate validates a grouping request. Thresholds outside their
// documented ranges fail fast rather than being clamped.
func (req *GroupRequest) Validate() error {
	if req.MinSimilarity < 0.0 || req.MinSimilarity > 1.0 {
		return NewValidationError("min_similarity must be between 0.0 and 1.0")
	}
	if req.MinLines < 1 {
		return NewValidationError("min_lines must be >= 1")
	}
	return nil
}

// SimilarityMode selects the pairwise similarity estimator.
type SimilarityMode string

const (
	// SimilaritySequence compares normalized line sequences exactly.
	SimilaritySequence SimilarityMode = "sequence"
	// SimilaritySketch uses a MinHash sketch estimate (fast, approximate).
	SimilaritySketch SimilarityMode = "sketch"
	// SimilarityHybrid blends sequence and sketch with documented weights.
	SimilarityHybrid SimilarityMode = "hybrid"
)

// Valid reports whether the mode is one of the supported estimators.
func (m SimilarityMode) Valid() bool {
	switch m {
	case SimilaritySequence, SimilaritySketch, SimilarityHybrid:
		return true
	}
	return false
}
