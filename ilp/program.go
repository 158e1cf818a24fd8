// Package ilp - program construction: incidence, objective weights, model size.
package ilp

import (
	"errors"
	"sort"

	"github.com/katalvlaran/mathtrade/core"
)

// Objective selects what the program maximizes.
type Objective int

const (
	// MaxTrades maximizes the number of traded items (Σ |c|·x_c).
	MaxTrades Objective = iota

	// MaxPlayers maximizes the number of distinct participants trading.
	MaxPlayers
)

// Status reports how far the back-end got.
type Status int

const (
	// StatusOptimal: the search ran to completion; the solution is proven optimal.
	StatusOptimal Status = iota

	// StatusFeasible: the search was interrupted (cancellation or node
	// budget); the incumbent is valid but not proven optimal.
	StatusFeasible
)

// String renders the status for reports.
func (s Status) String() string {
	if s == StatusOptimal {
		return "optimal"
	}

	return "feasible"
}

// ErrNilInstance indicates NewPlayerMax was given no instance to resolve owners.
var ErrNilInstance = errors.New("ilp: nil instance")

// Program is a materialised cycle-selection model, ready to solve.
type Program struct {
	objective Objective

	// pool is the cycle set in branch order (pre-sorted by contribution).
	pool []core.Cycle

	// itemIdx assigns each distinct item a dense index; items[c] lists the
	// item indices of pool[c].
	itemIdx map[string]int
	items   [][]int

	// value[c] is the objective contribution of pool[c] alone:
	// |c| for MaxTrades, the distinct-owner count for MaxPlayers.
	value []int

	// Player-max coupling: ownerIdx assigns dense participant indices;
	// owners[c] lists the distinct owner indices of pool[c].
	ownerIdx map[string]int
	owners   [][]int

	// Model size, as the corresponding integer program would state it.
	numVariables   int
	numConstraints int
}

// NewTradeMax builds the trade-count program over pool.
//
// Branch order: longer cycles first, ties by enumeration order (stable).
func NewTradeMax(pool []core.Cycle) *Program {
	p := &Program{objective: MaxTrades}
	p.pool = orderedCopy(pool, func(c core.Cycle) int { return len(c) })
	p.indexItems()
	for _, c := range p.pool {
		p.value = append(p.value, len(c))
	}

	// x_c per cycle; one disjointness row per distinct item.
	p.numVariables = len(p.pool)
	p.numConstraints = len(p.itemIdx)

	return p
}

// NewPlayerMax builds the participant-count program over pool, resolving
// ownership through in.
//
// Branch order: more distinct owners first, ties by enumeration order.
func NewPlayerMax(pool []core.Cycle, in *core.Instance) (*Program, error) {
	if in == nil {
		return nil, ErrNilInstance
	}

	p := &Program{objective: MaxPlayers, ownerIdx: make(map[string]int)}

	// Distinct-owner sets are needed for ordering, so compute them on the
	// original order first, then sort both together.
	type entry struct {
		cyc    core.Cycle
		owners []int
	}
	entries := make([]entry, len(pool))
	for i, c := range pool {
		seen := make(map[int]struct{})
		var os []int
		for _, id := range c {
			owner := in.Owner(id)
			if owner == core.Unknown {
				continue
			}
			idx, ok := p.ownerIdx[owner]
			if !ok {
				idx = len(p.ownerIdx)
				p.ownerIdx[owner] = idx
			}
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			os = append(os, idx)
		}
		entries[i] = entry{cyc: c, owners: os}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return len(entries[i].owners) > len(entries[j].owners)
	})

	couplings := 0
	for _, e := range entries {
		p.pool = append(p.pool, e.cyc)
		p.owners = append(p.owners, e.owners)
		p.value = append(p.value, len(e.owners))
		couplings += len(e.owners)
	}
	p.indexItems()

	// x_c per cycle + y_u per participant; rows: item disjointness,
	// y_u ≤ Σ x_c, y_u ≥ x_c per coupling, balance per participant.
	p.numVariables = len(p.pool) + len(p.ownerIdx)
	p.numConstraints = len(p.itemIdx) + len(p.ownerIdx) + couplings + len(p.ownerIdx)

	return p, nil
}

// indexItems assigns dense indices to every distinct item of the pool and
// fills the per-cycle incidence lists.
func (p *Program) indexItems() {
	p.itemIdx = make(map[string]int)
	p.items = make([][]int, len(p.pool))
	for c, cyc := range p.pool {
		row := make([]int, 0, len(cyc))
		for _, id := range cyc {
			idx, ok := p.itemIdx[id]
			if !ok {
				idx = len(p.itemIdx)
				p.itemIdx[id] = idx
			}
			row = append(row, idx)
		}
		p.items[c] = row
	}
}

// NumVariables returns the integer-program variable count.
func (p *Program) NumVariables() int { return p.numVariables }

// NumConstraints returns the integer-program constraint count.
func (p *Program) NumConstraints() int { return p.numConstraints }

// orderedCopy returns pool stably sorted by descending key.
func orderedCopy(pool []core.Cycle, key func(core.Cycle) int) []core.Cycle {
	out := make([]core.Cycle, len(pool))
	copy(out, pool)
	sort.SliceStable(out, func(i, j int) bool { return key(out[i]) > key(out[j]) })

	return out
}
