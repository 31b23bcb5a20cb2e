package analyzer

import (
	"strings"

	"github.com/ludo-technologies/refakt/domain"
)

// DiffNodeType labels a diff tree node.
type DiffNodeType string

const (
	DiffNodeRoot      DiffNodeType = "root"
	DiffNodeAligned   DiffNodeType = "aligned"
	DiffNodeDivergent DiffNodeType = "divergent"
	DiffNodeInserted  DiffNodeType = "inserted"
	DiffNodeDeleted   DiffNodeType = "deleted"
)

// DiffTreeNode is one node of a diff tree. Children are owned; metadata
// carries line-range bookkeeping copied from the source segment.
type DiffTreeNode struct {
	Type     DiffNodeType      `json:"type" yaml:"type"`
	Content  string            `json:"content,omitempty" yaml:"content,omitempty"`
	Children []*DiffTreeNode   `json:"children,omitempty" yaml:"children,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AddChild appends a child node.
func (n *DiffTreeNode) AddChild(child *DiffTreeNode) {
	n.Children = append(n.Children, child)
}

// DiffTree owns a root node and mirrors the counters of the alignment it
// was built from.
type DiffTree struct {
	Root            *DiffTreeNode `json:"root" yaml:"root"`
	SimilarityRatio float64       `json:"similarity_ratio" yaml:"similarity_ratio"`
	TotalAligned    int           `json:"total_aligned" yaml:"total_aligned"`
	TotalDivergent  int           `json:"total_divergent" yaml:"total_divergent"`
}

// BuildDiffTree wraps an alignment result into a flat tree: one container
// root with one child per segment, in segment order.
func BuildDiffTree(result *domain.AlignmentResult) *DiffTree {
	root := &DiffTreeNode{Type: DiffNodeRoot, Metadata: map[string]string{}}
	for _, seg := range result.Segments {
		root.AddChild(segmentNode(seg))
	}
	return &DiffTree{
		Root:            root,
		SimilarityRatio: result.SimilarityRatio,
		TotalAligned:    result.AlignedLines,
		TotalDivergent:  result.DivergentLines,
	}
}

// BuildNestedDiffTree additionally nests segments by source indentation
// depth: a segment indented deeper than the previous one becomes its child.
// The grouping is a best-effort view; the flat tree is the primary
// structure.
func BuildNestedDiffTree(result *domain.AlignmentResult) *DiffTree {
	root := &DiffTreeNode{Type: DiffNodeRoot, Metadata: map[string]string{}}

	type stackEntry struct {
		node  *DiffTreeNode
		depth int
	}
	stack := []stackEntry{{node: root, depth: -1}}

	for _, seg := range result.Segments {
		depth := segmentDepth(seg)
		node := segmentNode(seg)
		for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
		stack[len(stack)-1].node.AddChild(node)
		stack = append(stack, stackEntry{node: node, depth: depth})
	}

	return &DiffTree{
		Root:            root,
		SimilarityRatio: result.SimilarityRatio,
		TotalAligned:    result.AlignedLines,
		TotalDivergent:  result.DivergentLines,
	}
}

func segmentNode(seg *domain.AlignmentSegment) *DiffTreeNode {
	node := &DiffTreeNode{
		Type:     DiffNodeType(seg.Type),
		Metadata: map[string]string{},
	}
	switch seg.Type {
	case domain.SegmentInserted:
		node.Content = strings.Join(seg.RightText, "\n")
	default:
		node.Content = strings.Join(seg.LeftText, "\n")
	}
	if !seg.LeftRange.Empty() {
		node.Metadata["left_range"] = seg.LeftRange.String()
	}
	if !seg.RightRange.Empty() {
		node.Metadata["right_range"] = seg.RightRange.String()
	}
	if seg.Type == domain.SegmentDivergent {
		node.Metadata["right_content"] = strings.Join(seg.RightText, "\n")
	}
	return node
}

// segmentDepth takes the indentation of the segment's first content line.
func segmentDepth(seg *domain.AlignmentSegment) int {
	if len(seg.LeftText) > 0 {
		return indentationDepth(seg.LeftText[0])
	}
	if len(seg.RightText) > 0 {
		return indentationDepth(seg.RightText[0])
	}
	return 0
}

// TraverseDepthFirst visits the root first, then each child subtree
// recursively.
func (t *DiffTree) TraverseDepthFirst(visit func(*DiffTreeNode)) {
	var walk func(*DiffTreeNode)
	walk = func(n *DiffTreeNode) {
		if n == nil {
			return
		}
		visit(n)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(t.Root)
}

// TraverseBreadthFirst visits nodes in level order.
func (t *DiffTree) TraverseBreadthFirst(visit func(*DiffTreeNode)) {
	if t.Root == nil {
		return
	}
	queue := []*DiffTreeNode{t.Root}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		visit(n)
		queue = append(queue, n.Children...)
	}
}

// FindByType returns all nodes of the given type in depth-first order.
func (t *DiffTree) FindByType(nodeType DiffNodeType) []*DiffTreeNode {
	var found []*DiffTreeNode
	t.TraverseDepthFirst(func(n *DiffTreeNode) {
		if n.Type == nodeType {
			found = append(found, n)
		}
	})
	return found
}

// CountByType tallies nodes per type across the whole tree.
func (t *DiffTree) CountByType() map[DiffNodeType]int {
	counts := make(map[DiffNodeType]int)
	t.TraverseDepthFirst(func(n *DiffTreeNode) {
		counts[n.Type]++
	})
	return counts
}

// Depth returns the longest path from the root to a leaf. A tree holding
// only the root has depth 0.
func (t *DiffTree) Depth() int {
	var measure func(*DiffTreeNode) int
	measure = func(n *DiffTreeNode) int {
		if n == nil || len(n.Children) == 0 {
			return 0
		}
		deepest := 0
		for _, child := range n.Children {
			if d := measure(child); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	}
	return measure(t.Root)
}

// FindDivergentRegions returns every divergent node in the tree.
func (t *DiffTree) FindDivergentRegions() []*DiffTreeNode {
	return t.FindByType(DiffNodeDivergent)
}

// FindAlignedRegions returns every aligned node in the tree.
func (t *DiffTree) FindAlignedRegions() []*DiffTreeNode {
	return t.FindByType(DiffNodeAligned)
}
