// Package cycles enumerates simple directed cycles of bounded length in the
// want-graph.
//
// Every cycle is produced exactly once, in its canonical rotation: the
// vertex with the smallest canonical index comes first. Enumeration order is
// fully determined by the graph's vertex order and wishlist order, so every
// downstream solver is reproducible.
//
// The enumerator streams cycles through a callback (the pool can be
// exponential in graph density); Collect materialises the stream under an
// explicit cap.
//
// Search shape: one rooted DFS per start vertex in ascending canonical
// order, restricted to vertices with a strictly larger index than the root,
// path depth capped at MaxLen. Rooting at the minimum index yields each
// cycle once and is the canonical rotation for free.
package cycles

import (
	"context"
	"errors"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/wantgraph"
)

// Bounds and defaults.
const (
	// MinLen is the smallest meaningful trade cycle (a two-way swap).
	MinLen = 2

	// DefaultMaxLen caps cycle length when the caller does not choose one.
	DefaultMaxLen = 8

	// DefaultMaxCycles caps Collect's materialised pool.
	DefaultMaxCycles = 1_000_000
)

// Sentinel errors.
var (
	// ErrNilGraph indicates a nil graph was passed.
	ErrNilGraph = errors.New("cycles: nil graph")

	// ErrBadLength indicates MaxLen < MinLen.
	ErrBadLength = errors.New("cycles: max cycle length below 2")

	// ErrTooManyCycles indicates Collect hit its cap before exhausting the
	// graph. Callers needing the full pool must raise the cap or shrink L.
	ErrTooManyCycles = errors.New("cycles: cycle pool cap exceeded")
)

// Options bounds the enumeration.
type Options struct {
	// MaxLen is the inclusive upper bound on cycle length. Zero selects
	// DefaultMaxLen.
	MaxLen int

	// MaxCycles caps Collect (ignored by Enumerate). Zero selects
	// DefaultMaxCycles.
	MaxCycles int
}

// DefaultOptions returns the standard bounds (length ≤ 8, pool ≤ 1e6).
func DefaultOptions() Options {
	return Options{MaxLen: DefaultMaxLen, MaxCycles: DefaultMaxCycles}
}

// Enumerate streams every simple directed cycle of length in [2, MaxLen]
// whose vertices all have a known owner. yield receives a fresh slice per
// cycle (safe to retain); returning false stops enumeration early.
//
// Cancellation: ctx is checked between root vertices and on every emitted
// cycle; on cancellation the error is ctx.Err() and the stream is partial.
//
// Complexity: exponential in the worst case; MaxLen is the operator's knob.
func Enumerate(ctx context.Context, g *wantgraph.Graph, in *core.Instance, opts Options, yield func(core.Cycle) bool) error {
	if g == nil {
		return ErrNilGraph
	}
	maxLen := opts.MaxLen
	if maxLen == 0 {
		maxLen = DefaultMaxLen
	}
	if maxLen < MinLen {
		return ErrBadLength
	}

	// Items in the Unknown bucket never participate; mask them out.
	masked := make(map[string]bool)
	for _, id := range g.Vertices() {
		if in != nil && in.Owner(id) == core.Unknown {
			masked[id] = true
		}
	}

	e := enumerator{
		g:      g,
		maxLen: maxLen,
		masked: masked,
		onPath: make(map[string]bool),
		yield:  yield,
	}

	for rootIdx, root := range g.Vertices() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if masked[root] {
			continue
		}
		e.rootIdx = rootIdx
		e.path = e.path[:0]
		if !e.dfs(ctx, root) {
			if err := ctx.Err(); err != nil {
				return err
			}

			return nil // consumer stopped the stream
		}
	}

	return nil
}

// enumerator carries the per-search state of one Enumerate call.
type enumerator struct {
	g       *wantgraph.Graph
	maxLen  int
	masked  map[string]bool
	rootIdx int

	path   []string
	onPath map[string]bool
	yield  func(core.Cycle) bool
}

// dfs extends the current path by v and explores. Returns false to abort the
// whole enumeration (consumer stop or cancellation).
func (e *enumerator) dfs(ctx context.Context, v string) bool {
	e.path = append(e.path, v)
	e.onPath[v] = true
	defer func() {
		e.path = e.path[:len(e.path)-1]
		delete(e.onPath, v)
	}()

	root := e.path[0]
	for _, edge := range e.g.Neighbors(v) {
		next := edge.To
		if next == root {
			if len(e.path) >= MinLen {
				if ctx.Err() != nil {
					return false
				}
				cyc := make(core.Cycle, len(e.path))
				copy(cyc, e.path)
				if !e.yield(cyc) {
					return false
				}
			}
			continue
		}
		if len(e.path) == e.maxLen {
			continue // closing edge was the only option left
		}
		if e.masked[next] || e.onPath[next] {
			continue
		}
		// Only vertices above the root keep each cycle unique.
		if idx, err := e.g.Index(next); err != nil || idx <= e.rootIdx {
			continue
		}
		if !e.dfs(ctx, next) {
			return false
		}
	}

	return true
}

// Collect materialises the stream into a pool of at most MaxCycles cycles.
// Exceeding the cap returns the partial pool alongside ErrTooManyCycles so
// the caller can decide between failing and degrading.
func Collect(ctx context.Context, g *wantgraph.Graph, in *core.Instance, opts Options) ([]core.Cycle, error) {
	maxCycles := opts.MaxCycles
	if maxCycles == 0 {
		maxCycles = DefaultMaxCycles
	}

	var (
		pool    []core.Cycle
		tooMany bool
	)
	err := Enumerate(ctx, g, in, opts, func(c core.Cycle) bool {
		if len(pool) == maxCycles {
			tooMany = true
			return false
		}
		pool = append(pool, c)

		return true
	})
	if err != nil {
		return pool, err
	}
	if tooMany {
		return pool, ErrTooManyCycles
	}

	return pool, nil
}
