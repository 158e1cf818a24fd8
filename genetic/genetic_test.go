// Package genetic_test - the evolutionary solver: canonical scenarios,
// determinism under a fixed seed, the disjointness invariant, dominance of
// the exact player program.
package genetic_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/genetic"
	"github.com/katalvlaran/mathtrade/ilp"
)

// ownersFor maps each item to its own participant: a->u1, b->u2, …
func ownersFor(items ...string) *core.Instance {
	in := core.NewInstance()
	for i, id := range items {
		owner := "u" + string(rune('1'+i))
		_, _ = in.EnsureUser(owner)
		in.Items[id] = &core.Item{ID: id, Name: id, Owner: owner}
	}

	return in
}

// shortOpts keeps runs fast while exercising the full loop.
func shortOpts(seed int64) genetic.Options {
	o := genetic.DefaultOptions()
	o.Population = 20
	o.Generations = 30
	o.Seed = seed

	return o
}

// 1. Single possible trade: the GA must find the 2-cycle.
func TestSolve_TwoCycle(t *testing.T) {
	in := ownersFor("item1", "item2")
	pool := []core.Cycle{{"item1", "item2"}}

	sel, stats, err := genetic.Solve(context.Background(), pool, in, shortOpts(0))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if len(sel) != 1 || !reflect.DeepEqual(sel[0], pool[0]) {
		t.Fatalf("selection = %v, want the single 2-cycle", sel)
	}
	if stats.BestFitness != 2 {
		t.Fatalf("fitness = %d, want 2", stats.BestFitness)
	}
}

// 2. Disjoint pair available: fitness reaches all five participants.
func TestSolve_CoversAllPlayers(t *testing.T) {
	in := ownersFor("i1", "i2", "i3", "i4", "i5")
	pool := []core.Cycle{
		{"i1", "i2"},
		{"i3", "i4", "i5"},
	}
	sel, stats, err := genetic.Solve(context.Background(), pool, in, shortOpts(0))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if stats.BestFitness != 5 {
		t.Fatalf("fitness = %d, want 5", stats.BestFitness)
	}
	if !sel.Disjoint() {
		t.Fatalf("selection not disjoint: %v", sel)
	}
}

// 3. Determinism: identical seed reproduces the selection exactly;
// a different seed is allowed to differ (not asserted).
func TestSolve_DeterministicUnderSeed(t *testing.T) {
	in := ownersFor("a", "b", "c", "d", "e", "f")
	pool := []core.Cycle{
		{"a", "b"}, {"c", "d"}, {"e", "f"},
		{"a", "c", "e"}, {"b", "d", "f"}, {"a", "b", "c"},
	}

	first, _, err := genetic.Solve(context.Background(), pool, in, shortOpts(42))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	for run := 0; run < 3; run++ {
		again, _, err2 := genetic.Solve(context.Background(), pool, in, shortOpts(42))
		if err2 != nil {
			t.Fatalf("Solve failed: %v", err2)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: %v != %v", run, again, first)
		}
	}
}

// 4. Disjointness holds for every seed tried (crossover and mutation must
// never manufacture a conflict).
func TestSolve_AlwaysDisjoint(t *testing.T) {
	in := ownersFor("a", "b", "c", "d", "e", "f")
	pool := []core.Cycle{
		{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "e"}, {"e", "f"},
		{"a", "c", "e"}, {"b", "d", "f"},
	}
	for seed := int64(1); seed <= 5; seed++ {
		sel, _, err := genetic.Solve(context.Background(), pool, in, shortOpts(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if !sel.Disjoint() {
			t.Fatalf("seed %d: selection not disjoint: %v", seed, sel)
		}
	}
}

// 5. The exact player program dominates the heuristic on the same pool.
func TestSolve_NeverBeatsExactPlayerMax(t *testing.T) {
	in := ownersFor("a", "b", "c", "d", "e", "f")
	pool := []core.Cycle{
		{"a", "b", "c"},
		{"a", "b"}, {"c", "d"}, {"e", "f"},
	}

	prog, err := ilp.NewPlayerMax(pool, in)
	if err != nil {
		t.Fatalf("NewPlayerMax failed: %v", err)
	}
	exact := prog.Solve(context.Background(), ilp.Options{})

	_, stats, err := genetic.Solve(context.Background(), pool, in, shortOpts(7))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if stats.BestFitness > exact.Objective {
		t.Fatalf("heuristic fitness %d exceeds exact optimum %d", stats.BestFitness, exact.Objective)
	}
}

// 6. Empty pool short-circuits.
func TestSolve_EmptyPool(t *testing.T) {
	in := ownersFor("a")
	sel, stats, err := genetic.Solve(context.Background(), nil, in, shortOpts(0))
	if err != nil || sel != nil || stats.Generations != 0 {
		t.Fatalf("sel=%v stats=%+v err=%v, want empty zero-run", sel, stats, err)
	}
}

// 7. A dead context returns immediately, tagged cancelled.
func TestSolve_Cancelled(t *testing.T) {
	in := ownersFor("a", "b")
	pool := []core.Cycle{{"a", "b"}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, stats, err := genetic.Solve(ctx, pool, in, shortOpts(0))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !stats.Cancelled {
		t.Fatal("expected Cancelled")
	}
}

// 8. Option validation.
func TestSolve_BadOptions(t *testing.T) {
	in := ownersFor("a", "b")
	bad := shortOpts(0)
	bad.Population = 0
	if _, _, err := genetic.Solve(context.Background(), []core.Cycle{{"a", "b"}}, in, bad); err != genetic.ErrBadOptions {
		t.Fatalf("err = %v, want ErrBadOptions", err)
	}
}
