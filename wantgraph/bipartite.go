// Package wantgraph - bipartite R/S view for the matching solver.
package wantgraph

import (
	"math"

	"github.com/katalvlaran/mathtrade/core"
)

// SelfEdgeWeight is the cost of the x_R—x_S "keep your own item" pair. It
// dwarfs any combination of real exchange edges (weight 1 each), so a
// minimum-weight full matching prefers genuine trades whenever feasible.
const SelfEdgeWeight = 1e9

// Bipartite is the R/S graph in dense form. Row r = receiver vertex of item
// ids[r]; column s = sender vertex of item ids[s]. Cost[r][s] is the edge
// weight, +Inf where no edge exists. The diagonal always carries
// SelfEdgeWeight, so a full matching over all receivers exists by
// construction.
type Bipartite struct {
	// IDs is the canonical (sorted) item order shared by rows and columns.
	IDs []string

	// Cost is the n×n weight matrix described above.
	Cost [][]float64
}

// BuildBipartite constructs the R/S graph of in.
//
// For every offer a with wish w owned by a different participant, the pair
// a_R—w_S gets weight 1. Wishlist entries that do not resolve are reported,
// mirroring BuildWant.
//
// Complexity: O(n² + total wishlist length) time, O(n²) space.
func BuildBipartite(in *core.Instance) (*Bipartite, []core.Diagnostic, error) {
	g, diags, err := BuildWant(in)
	if err != nil {
		return nil, diags, err
	}

	n := g.NumVertices()
	b := &Bipartite{
		IDs:  g.Vertices(),
		Cost: make([][]float64, n),
	}
	for r := 0; r < n; r++ {
		row := make([]float64, n)
		for s := range row {
			row[s] = math.Inf(1)
		}
		row[r] = SelfEdgeWeight
		b.Cost[r] = row
	}

	for _, from := range b.IDs {
		r, _ := g.Index(from)
		for _, e := range g.Neighbors(from) {
			s, _ := g.Index(e.To)
			b.Cost[r][s] = 1
		}
	}

	return b, diags, nil
}

// N returns the partition size (item count).
func (b *Bipartite) N() int { return len(b.IDs) }
