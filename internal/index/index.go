// Package index wraps an HNSW graph as a one-shot inner-product vector
// index. The index is built once over the corpus vectors at startup and is
// read-only afterwards.
package index

import (
	"strconv"

	"github.com/coder/hnsw"

	rerrors "github.com/hybridrank/hybridrank/internal/errors"
)

// Result is one search hit. Position references the vector's position in
// the build order, i.e. the corpus load order.
type Result struct {
	Position int
	Score    float64
}

// Index is an inner-product nearest-neighbor index. Vectors are expected to
// be L2-normalized, making cosine similarity equal to the inner product.
type Index struct {
	graph *hnsw.Graph[uint64]
	dim   int
	size  int
}

// New creates an empty index with the given vector dimension.
func New(dim int) *Index {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25

	return &Index{graph: graph, dim: dim}
}

// Build inserts all corpus vectors in order. It is called exactly once;
// positions in search results reference this insertion order. A vector of
// the wrong dimension is a configuration error.
func (idx *Index) Build(vectors [][]float32) error {
	if len(vectors) == 0 {
		return rerrors.New(rerrors.ErrCodeEmptyCorpus, "cannot build index with no vectors", nil)
	}

	for i, vec := range vectors {
		if len(vec) != idx.dim {
			return rerrors.New(rerrors.ErrCodeDimensionMismatch, "vector dimension does not match index", nil).
				WithDetail("position", strconv.Itoa(i)).
				WithDetail("expected", strconv.Itoa(idx.dim)).
				WithDetail("got", strconv.Itoa(len(vec)))
		}
		idx.graph.Add(hnsw.MakeNode(uint64(i), vec))
	}

	idx.size = len(vectors)
	return nil
}

// Search returns up to k results ordered by descending inner-product score.
// k is clamped to the index size.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.dim {
		return nil, rerrors.New(rerrors.ErrCodeDimensionMismatch, "query dimension does not match index", nil).
			WithDetail("expected", strconv.Itoa(idx.dim)).
			WithDetail("got", strconv.Itoa(len(query)))
	}
	if idx.size == 0 || k <= 0 {
		return nil, nil
	}
	if k > idx.size {
		k = idx.size
	}

	// Cosine distance is undefined for a zero query (a query sharing no
	// vocabulary with the corpus). Return the first k positions with zero
	// scores instead of propagating NaNs.
	if isZero(query) {
		results := make([]Result, k)
		for i := range results {
			results[i] = Result{Position: i, Score: 0}
		}
		return results, nil
	}

	nodes := idx.graph.Search(query, k)

	results := make([]Result, 0, len(nodes))
	for _, node := range nodes {
		dist := idx.graph.Distance(query, node.Value)
		results = append(results, Result{
			Position: int(node.Key),
			Score:    1.0 - float64(dist),
		})
	}
	return results, nil
}

func isZero(vec []float32) bool {
	for _, x := range vec {
		if x != 0 {
			return false
		}
	}
	return true
}

// Len returns the number of indexed vectors.
func (idx *Index) Len() int {
	return idx.size
}

// Dimension returns the index's vector dimension.
func (idx *Index) Dimension() int {
	return idx.dim
}
