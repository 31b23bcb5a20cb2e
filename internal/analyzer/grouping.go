package analyzer

import (
	"github.com/ludo-technologies/refakt/domain"
)

// DuplicateGrouper clusters similar candidates into duplicate groups. The
// bucketing pass limits pairwise comparison; the merge pass unions clusters
// that share members across buckets.
type DuplicateGrouper struct {
	fingerprinter *Fingerprinter
	estimator     *SimilarityEstimator
}

// NewDuplicateGrouper creates a grouper using the given estimator.
func NewDuplicateGrouper(estimator *SimilarityEstimator) *DuplicateGrouper {
	return &DuplicateGrouper{
		fingerprinter: NewFingerprinter(),
		estimator:     estimator,
	}
}

// Group clusters candidates whose similarity meets the threshold. Fragments
// shorter than minLines are excluded regardless of similarity. Validation
// errors fail fast; thresholds are never silently clamped.
func (g *DuplicateGrouper) Group(req *domain.GroupRequest) ([]*domain.DuplicateGroup, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	eligible := make([]*domain.CodeCandidate, 0, len(req.Candidates))
	for _, c := range req.Candidates {
		if c.LineCount() >= req.MinLines {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) < 2 {
		return []*domain.DuplicateGroup{}, nil
	}

	clusters := g.clusterBuckets(eligible, req.MinSimilarity)
	merged := mergeOverlappingClusters(clusters)

	groups := make([]*domain.DuplicateGroup, 0, len(merged))
	for i, cluster := range merged {
		group := &domain.DuplicateGroup{ID: i + 1}
		for _, c := range cluster {
			group.AddCandidate(c)
		}
		group.AverageLines = float64(group.TotalLines()) / float64(group.Size)
		group.Similarity = g.aggregateSimilarity(cluster)
		groups = append(groups, group)
	}

	return groups, nil
}

// clusterBuckets buckets candidates by structural hash, then greedily
// clusters within each bucket: an unassigned candidate seeds a cluster and
// pulls in every later unassigned candidate above the threshold. An item
// belongs to at most one cluster per bucket pass. Singleton clusters are
// discarded.
func (g *DuplicateGrouper) clusterBuckets(candidates []*domain.CodeCandidate, minSimilarity float64) [][]*domain.CodeCandidate {
	buckets := g.fingerprinter.Bucket(candidates)

	// Walk buckets in input order so cluster ordering stays deterministic.
	orderedKeys := make([]uint64, 0, len(buckets))
	seen := make(map[uint64]bool)
	for _, c := range candidates {
		key := g.fingerprinter.Fingerprint(c.Text)
		if !seen[key] {
			seen[key] = true
			orderedKeys = append(orderedKeys, key)
		}
	}

	var clusters [][]*domain.CodeCandidate
	for _, key := range orderedKeys {
		bucket := buckets[key]
		if len(bucket) < 2 {
			continue
		}
		assigned := make(map[string]bool, len(bucket))
		for i, seed := range bucket {
			if assigned[seed.ID] {
				continue
			}
			cluster := []*domain.CodeCandidate{seed}
			assigned[seed.ID] = true
			for j := i + 1; j < len(bucket); j++ {
				other := bucket[j]
				if assigned[other.ID] {
					continue
				}
				if g.estimator.EstimateSimilarity(seed.Text, other.Text) >= minSimilarity {
					cluster = append(cluster, other)
					assigned[other.ID] = true
				}
			}
			if len(cluster) >= 2 {
				clusters = append(clusters, cluster)
			}
		}
	}

	return clusters
}

// mergeOverlappingClusters unions clusters sharing any candidate across
// buckets, yielding the set of maximal merged clusters. Union-find over
// cluster indices keyed by candidate id.
func mergeOverlappingClusters(clusters [][]*domain.CodeCandidate) [][]*domain.CodeCandidate {
	if len(clusters) <= 1 {
		return clusters
	}

	parent := make([]int, len(clusters))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	memberOf := make(map[string]int)
	for i, cluster := range clusters {
		for _, c := range cluster {
			if j, ok := memberOf[c.ID]; ok {
				union(j, i)
			} else {
				memberOf[c.ID] = i
			}
		}
	}

	orderedRoots := []int{}
	grouped := make(map[int][]*domain.CodeCandidate)
	added := make(map[int]map[string]bool)
	for i, cluster := range clusters {
		root := find(i)
		if _, ok := grouped[root]; !ok {
			orderedRoots = append(orderedRoots, root)
			added[root] = make(map[string]bool)
		}
		for _, c := range cluster {
			if !added[root][c.ID] {
				added[root][c.ID] = true
				grouped[root] = append(grouped[root], c)
			}
		}
	}

	merged := make([][]*domain.CodeCandidate, 0, len(orderedRoots))
	for _, root := range orderedRoots {
		merged = append(merged, grouped[root])
	}
	return merged
}

// aggregateSimilarity averages all pairwise similarities within a cluster.
func (g *DuplicateGrouper) aggregateSimilarity(cluster []*domain.CodeCandidate) float64 {
	if len(cluster) < 2 {
		return 1.0
	}
	total := 0.0
	pairs := 0
	for i := 0; i < len(cluster); i++ {
		for j := i + 1; j < len(cluster); j++ {
			total += g.estimator.EstimateSimilarity(cluster[i].Text, cluster[j].Text)
			pairs++
		}
	}
	if pairs == 0 {
		return 0.0
	}
	return total / float64(pairs)
}
