// Package ilp - the exact branch-and-bound back-end.
//
// Search shape (same discipline as an exact B&B tour search): depth-first
// over the pre-ordered cycle variables, include branch first so a good
// incumbent appears early, admissible bound on the remaining suffix, prune
// on bound ≤ incumbent. Deterministic: no randomness, fixed branch order.
package ilp

import (
	"context"
	"math/bits"

	"github.com/katalvlaran/mathtrade/core"
)

// DefaultMaxNodes bounds the search tree when the caller does not choose a
// budget. Hitting the budget downgrades the result to StatusFeasible.
const DefaultMaxNodes = 10_000_000

// ctxCheckStride is how many nodes pass between cancellation checks.
const ctxCheckStride = 1024

// Options tunes the back-end.
type Options struct {
	// MaxNodes caps explored search nodes. Zero selects DefaultMaxNodes;
	// negative means unlimited.
	MaxNodes int64
}

// Solution is the back-end's output.
type Solution struct {
	// Chosen holds the selected cycles (x_c = 1), in branch order.
	Chosen []int

	// Objective is the achieved objective value.
	Objective int

	// Status reports optimality; see Status.
	Status Status

	// Cancelled is set when ctx fired during the search.
	Cancelled bool

	// Nodes counts explored search nodes.
	Nodes int64
}

// Solve runs the branch-and-bound to completion or interruption.
//
// Contracts:
//   - Run to completion, the returned solution is a proven optimum of the
//     stated program (StatusOptimal).
//   - Interrupted, the incumbent is returned with StatusFeasible; the empty
//     selection is a legal incumbent.
//
// Complexity: exponential worst case; the bound makes dense pools tractable
// at the scales the enumerator emits.
func (p *Program) Solve(ctx context.Context, opts Options) Solution {
	maxNodes := opts.MaxNodes
	if maxNodes == 0 {
		maxNodes = DefaultMaxNodes
	}

	s := &search{
		p:        p,
		maxNodes: maxNodes,
		used:     make([]bool, len(p.itemIdx)),
		best:     -1,
	}
	if p.objective == MaxPlayers {
		s.ownerWords = (len(p.ownerIdx) + 63) / 64
		s.curOwners = make([]uint64, s.ownerWords)
		s.ownerCnt = make([]int, len(p.ownerIdx))
		s.suffixOwners = p.suffixOwnerUnions(s.ownerWords)
	} else {
		s.suffixValue = p.suffixValues()
	}

	if ctx.Err() != nil {
		s.stopped, s.cancelled = true, true
	}
	s.branch(ctx, 0)

	sol := Solution{
		Chosen:    s.bestSet,
		Objective: s.best,
		Status:    StatusOptimal,
		Cancelled: s.cancelled,
		Nodes:     s.nodes,
	}
	if s.best < 0 {
		sol.Objective = 0
	}
	if s.stopped {
		sol.Status = StatusFeasible
	}

	return sol
}

// Cycles maps a solution back to the underlying cycle slices.
func (p *Program) Cycles(sol Solution) []core.Cycle {
	out := make([]core.Cycle, 0, len(sol.Chosen))
	for _, c := range sol.Chosen {
		out = append(out, p.pool[c])
	}

	return out
}

// search carries the mutable DFS state of one Solve call.
type search struct {
	p        *Program
	maxNodes int64

	used  []bool
	stack []int
	cur   int

	// Player-max state: per-owner multiplicity and a bitset of owners with
	// multiplicity ≥ 1.
	ownerWords   int
	ownerCnt     []int
	curOwners    []uint64
	suffixOwners [][]uint64

	// Trade-max state: suffix sums of cycle values.
	suffixValue []int

	best    int
	bestSet []int

	nodes     int64
	stopped   bool
	cancelled bool
}

// branch explores the subtree where variables [0, i) are fixed.
func (s *search) branch(ctx context.Context, i int) {
	if s.stopped {
		return
	}
	s.nodes++
	if s.nodes%ctxCheckStride == 0 && ctx.Err() != nil {
		s.stopped, s.cancelled = true, true
		return
	}
	if s.maxNodes > 0 && s.nodes > s.maxNodes {
		s.stopped = true
		return
	}

	if i == len(s.p.pool) {
		if s.cur > s.best {
			s.best = s.cur
			s.bestSet = append(s.bestSet[:0], s.stack...)
		}

		return
	}

	if s.bound(i) <= s.best {
		return // the whole suffix cannot beat the incumbent
	}

	// Include branch first: compatible cycles extend the incumbent fast.
	if s.compatible(i) {
		delta := s.apply(i)
		s.stack = append(s.stack, i)
		s.branch(ctx, i+1)
		s.stack = s.stack[:len(s.stack)-1]
		s.undo(i, delta)
	}

	s.branch(ctx, i+1)
}

// bound returns an admissible upper bound for the subtree rooted at i:
// current value plus everything the remaining cycles could possibly add,
// ignoring conflicts.
func (s *search) bound(i int) int {
	if s.p.objective == MaxTrades {
		return s.cur + s.suffixValue[i]
	}

	extra := 0
	suffix := s.suffixOwners[i]
	for w := 0; w < s.ownerWords; w++ {
		extra += bits.OnesCount64(suffix[w] &^ s.curOwners[w])
	}

	return s.cur + extra
}

// compatible reports whether pool[i] shares no item with the current choice.
func (s *search) compatible(i int) bool {
	for _, it := range s.p.items[i] {
		if s.used[it] {
			return false
		}
	}

	return true
}

// apply commits pool[i] and returns the objective delta for undo.
func (s *search) apply(i int) int {
	for _, it := range s.p.items[i] {
		s.used[it] = true
	}

	delta := 0
	if s.p.objective == MaxTrades {
		delta = s.p.value[i]
	} else {
		for _, o := range s.p.owners[i] {
			s.ownerCnt[o]++
			if s.ownerCnt[o] == 1 {
				s.curOwners[o/64] |= 1 << uint(o%64)
				delta++
			}
		}
	}
	s.cur += delta

	return delta
}

// undo reverts apply.
func (s *search) undo(i, delta int) {
	for _, it := range s.p.items[i] {
		s.used[it] = false
	}
	if s.p.objective == MaxPlayers {
		for _, o := range s.p.owners[i] {
			s.ownerCnt[o]--
			if s.ownerCnt[o] == 0 {
				s.curOwners[o/64] &^= 1 << uint(o%64)
			}
		}
	}
	s.cur -= delta
}

// suffixValues precomputes Σ value[j], j ≥ i, for the trade-max bound.
func (p *Program) suffixValues() []int {
	out := make([]int, len(p.pool)+1)
	for i := len(p.pool) - 1; i >= 0; i-- {
		out[i] = out[i+1] + p.value[i]
	}

	return out
}

// suffixOwnerUnions precomputes the union of owner sets over each suffix,
// as bitsets, for the player-max bound.
func (p *Program) suffixOwnerUnions(words int) [][]uint64 {
	out := make([][]uint64, len(p.pool)+1)
	out[len(p.pool)] = make([]uint64, words)
	for i := len(p.pool) - 1; i >= 0; i-- {
		row := make([]uint64, words)
		copy(row, out[i+1])
		for _, o := range p.owners[i] {
			row[o/64] |= 1 << uint(o%64)
		}
		out[i] = row
	}

	return out
}
