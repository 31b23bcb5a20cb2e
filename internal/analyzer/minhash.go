package analyzer

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strings"

	"github.com/ludo-technologies/refakt/internal/constants"
)

// Sketch is a MinHash signature over a block's line shingles.
type Sketch struct {
	signature []uint64
}

// Sketcher computes MinHash sketches for normalized line sequences. The
// sketch estimator trades exactness for speed: signature agreement
// approximates the Jaccard similarity of the shingle sets.
type Sketcher struct {
	numHashes   int
	shingleSize int
	coeffA      []uint64
	coeffB      []uint64
}

// NewSketcher creates a Sketcher with the given signature width and shingle
// size, falling back to defaults on invalid values.
func NewSketcher(numHashes, shingleSize int) *Sketcher {
	if numHashes <= 0 {
		numHashes = constants.DefaultSketchHashes
	}
	if shingleSize <= 0 {
		shingleSize = constants.DefaultShingleSize
	}
	s := &Sketcher{numHashes: numHashes, shingleSize: shingleSize}
	s.generateCoefficients()
	return s
}

// generateCoefficients seeds the 64-bit universal hash family
// h_i(x) = (a_i * x) ^ b_i. The seed is fixed so signatures are reproducible
// across runs.
func (s *Sketcher) generateCoefficients() {
	rng := rand.New(rand.NewSource(0x7e1f_00d5_beef_cafe))
	s.coeffA = make([]uint64, s.numHashes)
	s.coeffB = make([]uint64, s.numHashes)
	for i := 0; i < s.numHashes; i++ {
		// Odd multipliers avoid degenerate cycles.
		s.coeffA[i] = rng.Uint64() | 1
		s.coeffB[i] = rng.Uint64()
	}
}

// ComputeSketch builds the signature for a normalized line sequence.
func (s *Sketcher) ComputeSketch(lines []string) *Sketch {
	signature := make([]uint64, s.numHashes)
	for i := range signature {
		signature[i] = math.MaxUint64
	}
	if len(lines) == 0 {
		return &Sketch{signature: signature}
	}

	base := s.shingleHashes(lines)
	for i := 0; i < s.numHashes; i++ {
		a, b := s.coeffA[i], s.coeffB[i]
		minV := uint64(math.MaxUint64)
		for _, x := range base {
			v := (a * x) ^ b
			if v < minV {
				minV = v
			}
		}
		signature[i] = minV
	}

	return &Sketch{signature: signature}
}

// shingleHashes hashes each run of shingleSize consecutive lines, treating
// the result as a set. Blocks shorter than one shingle hash as a whole.
func (s *Sketcher) shingleHashes(lines []string) []uint64 {
	seen := make(map[uint64]struct{})
	if len(lines) < s.shingleSize {
		seen[hashShingle(lines)] = struct{}{}
	} else {
		for i := 0; i+s.shingleSize <= len(lines); i++ {
			seen[hashShingle(lines[i:i+s.shingleSize])] = struct{}{}
		}
	}
	base := make([]uint64, 0, len(seen))
	for h := range seen {
		base = append(base, h)
	}
	return base
}

func hashShingle(lines []string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.Join(lines, "\n")))
	return h.Sum64()
}

// EstimateSimilarity estimates Jaccard similarity via signature agreement.
func (s *Sketcher) EstimateSimilarity(a, b *Sketch) float64 {
	if a == nil || b == nil || len(a.signature) == 0 || len(b.signature) == 0 {
		return 0.0
	}
	n := len(a.signature)
	if len(b.signature) < n {
		n = len(b.signature)
	}
	match := 0
	for i := 0; i < n; i++ {
		if a.signature[i] == b.signature[i] {
			match++
		}
	}
	return float64(match) / float64(n)
}
