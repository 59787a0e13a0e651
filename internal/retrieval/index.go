package retrieval

import (
	"sort"

	"github.com/docgenius-ai/docgenius/internal/domain"
)

// Match is one nearest-neighbor result: the position of a sentence in the
// corpus and its squared-Euclidean distance from the query vector.
type Match struct {
	Position int
	Distance float32
}

// Index is a flat, exact nearest-neighbor index over a corpus's embedding
// vectors. It is immutable after construction and holds no reference to the
// corpus beyond the vectors themselves, so callers may rebuild it per query
// or cache it per conversation without coordination.
type Index struct {
	vectors [][]float32
	dim     int
}

// BuildIndex constructs an Index from the given vectors. All vectors must
// share the same dimensionality; an empty input is rejected because a corpus
// with no retrievable content cannot answer any query.
func BuildIndex(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return nil, domain.ErrEmptyCorpus
	}

	dim := len(vectors[0])
	if dim == 0 {
		return nil, domain.ErrDimensionMismatch
	}
	for _, v := range vectors[1:] {
		if len(v) != dim {
			return nil, domain.ErrDimensionMismatch
		}
	}

	return &Index{vectors: vectors, dim: dim}, nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Dim returns the dimensionality of the indexed vectors.
func (ix *Index) Dim() int {
	return ix.dim
}

// Search returns the k indexed vectors closest to query, ascending by
// squared-Euclidean distance. k is clamped to the index size. Equal
// distances are broken by ascending position so results are deterministic.
func (ix *Index) Search(query []float32, k int) ([]Match, error) {
	if len(query) != ix.dim {
		return nil, domain.ErrDimensionMismatch
	}

	if k <= 0 {
		return []Match{}, nil
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}

	matches := make([]Match, len(ix.vectors))
	for i, v := range ix.vectors {
		matches[i] = Match{Position: i, Distance: squaredDistance(query, v)}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Position < matches[j].Position
	})

	return matches[:k], nil
}

func squaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
