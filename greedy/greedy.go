// Package greedy packs trade cycles longest-first with no backtracking.
//
// The pool is sorted by descending length, stably, so ties keep enumeration
// order and the result is deterministic. A cycle is accepted iff it touches
// no already-committed item and contains no same-giver/same-receiver step
// (owner of one hop equals owner of the next - cannot occur on a properly
// built want-graph, but the guard keeps the solver safe on arbitrary pools).
//
// Greedy is the cheap baseline: never better than the exact trade-max
// program on the same pool, often close.
package greedy

import (
	"errors"
	"sort"

	"github.com/katalvlaran/mathtrade/core"
)

// ErrNilInstance indicates no instance was provided to resolve owners.
var ErrNilInstance = errors.New("greedy: nil instance")

// Solve packs pool into an item-disjoint selection, longest cycles first.
//
// Complexity: O(pool·log pool + total cycle length).
func Solve(pool []core.Cycle, in *core.Instance) (core.Selection, error) {
	if in == nil {
		return nil, ErrNilInstance
	}

	ordered := make([]core.Cycle, len(pool))
	copy(ordered, pool)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	var (
		sel       core.Selection
		committed = make(map[string]struct{})
	)
	for _, c := range ordered {
		if conflicts(c, committed) || selfStep(c, in) {
			continue
		}
		sel = append(sel, c)
		for _, id := range c {
			committed[id] = struct{}{}
		}
	}

	return sel, nil
}

// conflicts reports whether c touches a committed item.
func conflicts(c core.Cycle, committed map[string]struct{}) bool {
	for _, id := range c {
		if _, taken := committed[id]; taken {
			return true
		}
	}

	return false
}

// selfStep reports whether any hop of c keeps the item with its owner
// (giver == receiver), including the wrap-around hop.
func selfStep(c core.Cycle, in *core.Instance) bool {
	n := len(c)
	for i := 0; i < n; i++ {
		if in.Owner(c[i]) == in.Owner(c[(i+1)%n]) {
			return true
		}
	}

	return false
}
