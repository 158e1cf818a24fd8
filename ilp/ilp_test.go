// Package ilp_test - exact selection programs: optimality on the canonical
// scenarios, model sizes, dominance over greedy, statuses under budgets.
package ilp_test

import (
	"context"
	"testing"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/greedy"
	"github.com/katalvlaran/mathtrade/ilp"
)

// ownersFor maps items to one distinct participant each: first -> u1, second -> u2, …
func ownersFor(items ...string) *core.Instance {
	in := core.NewInstance()
	for i, id := range items {
		owner := "u" + string(rune('1'+i))
		_, _ = in.EnsureUser(owner)
		in.Items[id] = &core.Item{ID: id, Name: id, Owner: owner}
	}

	return in
}

func solveTrade(t *testing.T, pool []core.Cycle) ([]core.Cycle, ilp.Solution) {
	t.Helper()
	prog := ilp.NewTradeMax(pool)
	sol := prog.Solve(context.Background(), ilp.Options{})
	if sol.Status != ilp.StatusOptimal {
		t.Fatalf("status = %v, want optimal", sol.Status)
	}

	return prog.Cycles(sol), sol
}

// 1. Disjoint 2-cycle + 3-cycle: trade-max takes both (5 items).
func TestTradeMax_TakesAllDisjoint(t *testing.T) {
	pool := []core.Cycle{
		{"i1", "i2"},
		{"i3", "i4", "i5"},
	}
	chosen, sol := solveTrade(t, pool)
	if sol.Objective != 5 {
		t.Fatalf("objective = %d, want 5", sol.Objective)
	}
	if len(chosen) != 2 {
		t.Fatalf("chosen = %v, want both cycles", chosen)
	}
	if !core.Selection(chosen).Disjoint() {
		t.Fatalf("selection not disjoint: %v", chosen)
	}
}

// 2. Conflicting cycles sharing i1: the longer one wins.
func TestTradeMax_ConflictPicksLonger(t *testing.T) {
	pool := []core.Cycle{
		{"i1", "i2"},
		{"i1", "i3", "i4"},
	}
	chosen, sol := solveTrade(t, pool)
	if sol.Objective != 3 {
		t.Fatalf("objective = %d, want 3", sol.Objective)
	}
	if len(chosen) != 1 || len(chosen[0]) != 3 {
		t.Fatalf("chosen = %v, want the 3-cycle", chosen)
	}
}

// 3. A case where greedy is strictly worse: the long cycle blocks two
// disjoint short ones. Trade-max must beat the longest-first packing.
func TestTradeMax_DominatesGreedy(t *testing.T) {
	in := ownersFor("a", "b", "c", "d")
	pool := []core.Cycle{
		{"a", "b", "c"},
		{"a", "b"},
		{"c", "d"},
	}

	chosen, sol := solveTrade(t, pool)
	if sol.Objective != 4 {
		t.Fatalf("objective = %d, want 4 (both 2-cycles)", sol.Objective)
	}
	if len(chosen) != 2 {
		t.Fatalf("chosen = %v, want the two 2-cycles", chosen)
	}

	gSel, err := greedy.Solve(pool, in)
	if err != nil {
		t.Fatalf("greedy failed: %v", err)
	}
	if gSel.NumItems() > sol.Objective {
		t.Fatalf("greedy (%d items) beat the exact program (%d)", gSel.NumItems(), sol.Objective)
	}
}

// 4. Model size, trade-max: |pool| variables, |distinct items| constraints.
func TestTradeMax_ModelSize(t *testing.T) {
	prog := ilp.NewTradeMax([]core.Cycle{{"i1", "i2"}, {"i1", "i3", "i4"}})
	if prog.NumVariables() != 2 {
		t.Fatalf("vars = %d, want 2", prog.NumVariables())
	}
	if prog.NumConstraints() != 4 {
		t.Fatalf("constraints = %d, want 4", prog.NumConstraints())
	}
}

// 5. Player-max prefers two small cycles covering four participants over one
// long cycle covering three.
func TestPlayerMax_MaximizesParticipants(t *testing.T) {
	in := ownersFor("a", "b", "c", "d")
	// {a,b,c} covers u1,u2,u3; the pair {a,b}+{c,d} covers all four.
	pool := []core.Cycle{
		{"a", "b", "c"},
		{"a", "b"},
		{"c", "d"},
	}
	prog, err := ilp.NewPlayerMax(pool, in)
	if err != nil {
		t.Fatalf("NewPlayerMax failed: %v", err)
	}
	sol := prog.Solve(context.Background(), ilp.Options{})
	if sol.Status != ilp.StatusOptimal {
		t.Fatalf("status = %v, want optimal", sol.Status)
	}
	if sol.Objective != 4 {
		t.Fatalf("objective = %d, want 4 participants", sol.Objective)
	}
	sel := core.Selection(prog.Cycles(sol))
	if !sel.Disjoint() {
		t.Fatalf("selection not disjoint: %v", sel)
	}
	if got := sel.Participants(in); got != 4 {
		t.Fatalf("participants = %d, want 4", got)
	}
}

// 6. Balance invariant: in every chosen cycle each participant gives exactly
// as many items as it receives.
func TestPlayerMax_BalancePerParticipant(t *testing.T) {
	in := ownersFor("a", "b", "c", "d", "e")
	pool := []core.Cycle{{"a", "b"}, {"c", "d", "e"}}
	prog, err := ilp.NewPlayerMax(pool, in)
	if err != nil {
		t.Fatalf("NewPlayerMax failed: %v", err)
	}
	sol := prog.Solve(context.Background(), ilp.Options{})

	gives := map[string]int{}
	receives := map[string]int{}
	for _, c := range prog.Cycles(sol) {
		n := len(c)
		for i := 0; i < n; i++ {
			gives[in.Owner(c[i])]++
			receives[in.Owner(c[(i+1)%n])]++
		}
	}
	for u, g := range gives {
		if receives[u] != g {
			t.Fatalf("participant %s gives %d receives %d", u, g, receives[u])
		}
	}
}

// 7. Player-max model size: cycle + participant variables; item rows,
// linking rows, coupling rows, balance rows.
func TestPlayerMax_ModelSize(t *testing.T) {
	in := ownersFor("a", "b", "c")
	pool := []core.Cycle{{"a", "b"}, {"a", "b", "c"}}
	prog, err := ilp.NewPlayerMax(pool, in)
	if err != nil {
		t.Fatalf("NewPlayerMax failed: %v", err)
	}
	// vars: 2 cycles + 3 participants; rows: 3 items + 3 link + (2+3)
	// couplings + 3 balance.
	if prog.NumVariables() != 5 {
		t.Fatalf("vars = %d, want 5", prog.NumVariables())
	}
	if prog.NumConstraints() != 14 {
		t.Fatalf("constraints = %d, want 14", prog.NumConstraints())
	}
}

// 8. Node budget of 1 downgrades to feasible; the incumbent stays valid.
func TestSolve_NodeBudgetFeasible(t *testing.T) {
	pool := []core.Cycle{{"i1", "i2"}, {"i3", "i4"}}
	prog := ilp.NewTradeMax(pool)
	sol := prog.Solve(context.Background(), ilp.Options{MaxNodes: 1})
	if sol.Status != ilp.StatusFeasible {
		t.Fatalf("status = %v, want feasible", sol.Status)
	}
	if !core.Selection(prog.Cycles(sol)).Disjoint() {
		t.Fatalf("incumbent not disjoint")
	}
}

// 9. A context that is already dead interrupts immediately with Cancelled set.
func TestSolve_Cancelled(t *testing.T) {
	pool := []core.Cycle{{"i1", "i2"}, {"i3", "i4"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	prog := ilp.NewTradeMax(pool)
	sol := prog.Solve(ctx, ilp.Options{MaxNodes: -1})
	if !sol.Cancelled {
		t.Fatalf("expected Cancelled on a dead context (nodes=%d)", sol.Nodes)
	}
	if sol.Status != ilp.StatusFeasible {
		t.Fatalf("status = %v, want feasible", sol.Status)
	}
}

// 10. Empty pool: optimal empty selection, zero objective.
func TestSolve_EmptyPool(t *testing.T) {
	prog := ilp.NewTradeMax(nil)
	sol := prog.Solve(context.Background(), ilp.Options{})
	if sol.Status != ilp.StatusOptimal || sol.Objective != 0 || len(sol.Chosen) != 0 {
		t.Fatalf("sol = %+v, want empty optimum", sol)
	}
}
