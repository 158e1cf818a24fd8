// Package match computes a minimum-weight full matching over the receiver
// partition of the bipartite R/S graph.
//
// The back-end is the Hungarian algorithm in its successive-shortest-
// augmenting-path form with row/column potentials - exact, O(n³), no
// heuristics. Ties break toward the smallest column index, so results are
// deterministic in the graph's canonical vertex order.
//
// Every receiver always has at least its self-edge (the "keep your own
// item" pair of weight wantgraph.SelfEdgeWeight), so a full matching exists
// by construction; the infeasibility guards below only trip on programmer
// error.
package match

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/wantgraph"
)

// Sentinel errors.
var (
	// ErrNotBipartite indicates a malformed R/S graph (nil or non-square).
	// Should not occur by construction; reported, and the caller receives an
	// empty matching.
	ErrNotBipartite = errors.New("match: graph is not a valid bipartite R/S graph")

	// ErrInfeasible indicates no full matching exists - impossible while the
	// self-edge diagonal is intact.
	ErrInfeasible = errors.New("match: no full matching over the receiver partition")
)

// Result is a full matching: Receiver r (row) is paired with sender
// RowMatch[r] (column). A pair RowMatch[r] == r is a non-trade.
type Result struct {
	// IDs is the canonical item order the indices refer to.
	IDs []string

	// RowMatch maps receiver index to matched sender index.
	RowMatch []int

	// Cost is the total weight of the matching.
	Cost float64
}

// MinWeightFullMatching solves the assignment problem on b.
//
// Contracts:
//   - b.Cost is square, +Inf marks missing edges, the diagonal is finite.
//   - The optimum is exact; among equal-cost matchings the one reached by
//     smallest-index tie-breaking is returned.
//
// Cancellation: ctx is checked once per augmented row; a cancelled run
// returns ctx.Err() and an empty Result.
//
// Complexity: O(n³) time, O(n²) space (the caller's matrix).
func MinWeightFullMatching(ctx context.Context, b *wantgraph.Bipartite) (Result, error) {
	if b == nil || len(b.Cost) != len(b.IDs) {
		return Result{}, ErrNotBipartite
	}
	n := b.N()
	for _, row := range b.Cost {
		if len(row) != n {
			return Result{}, ErrNotBipartite
		}
	}
	if n == 0 {
		return Result{IDs: b.IDs}, nil
	}

	// Potentials u (rows) and v (columns); p[j] = row matched to column j;
	// index 0 is the virtual unmatched slot (1-based internally).
	var (
		u   = make([]float64, n+1)
		v   = make([]float64, n+1)
		p   = make([]int, n+1)
		way = make([]int, n+1)
	)

	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Dijkstra-style scan for the cheapest augmenting path of row i.
		for {
			used[j0] = true
			var (
				i0    = p[j0]
				delta = math.Inf(1)
				j1    = -1
			)
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := b.Cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 || math.IsInf(delta, 1) {
				return Result{}, ErrInfeasible
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		// Augment along the recorded path.
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	res := Result{IDs: b.IDs, RowMatch: make([]int, n)}
	for j := 1; j <= n; j++ {
		res.RowMatch[p[j]-1] = j - 1
	}
	for r, s := range res.RowMatch {
		res.Cost += b.Cost[r][s]
	}

	return res, nil
}

// Selection decomposes the matching permutation into trade cycles. Each
// receiver r paired with sender s ≠ r means "owner of item r receives item
// s"; following r → RowMatch[r] until the walk closes yields exactly the
// want-graph cycle realising those hand-overs. Self-pairs are non-trades and
// produce no cycle. Cycles come out rooted at their smallest item id, sorted
// by that root.
func (r Result) Selection() core.Selection {
	n := len(r.RowMatch)
	var (
		sel  core.Selection
		done = make([]bool, n)
	)
	for start := 0; start < n; start++ {
		if done[start] || r.RowMatch[start] == start {
			continue
		}
		var cyc core.Cycle
		for at := start; !done[at]; at = r.RowMatch[at] {
			done[at] = true
			cyc = append(cyc, r.IDs[at])
		}
		sel = append(sel, canonical(cyc))
	}
	sort.Slice(sel, func(i, j int) bool { return sel[i][0] < sel[j][0] })

	return sel
}

// canonical rotates c so its lexicographically smallest id comes first.
func canonical(c core.Cycle) core.Cycle {
	if len(c) == 0 {
		return c
	}
	min := 0
	for i, id := range c {
		if id < c[min] {
			min = i
		}
	}
	if min == 0 {
		return c
	}
	out := make(core.Cycle, 0, len(c))
	out = append(out, c[min:]...)
	out = append(out, c[:min]...)

	return out
}
