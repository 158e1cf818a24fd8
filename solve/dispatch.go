// Package solve - the dispatcher: build the right graph view, enumerate
// when needed, route to the selected back-end.
package solve

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/cycles"
	"github.com/katalvlaran/mathtrade/genetic"
	"github.com/katalvlaran/mathtrade/greedy"
	"github.com/katalvlaran/mathtrade/ilp"
	"github.com/katalvlaran/mathtrade/match"
	"github.com/katalvlaran/mathtrade/wantgraph"
)

// Run executes one solve of in under opts and returns the selection, its
// statistics and any non-fatal diagnostics.
//
// Contracts:
//   - in must be normalized (see package normalize); Run does not mutate it.
//   - Fatal errors are limited to: nil instance, unknown algorithm, invalid
//     options (cycle length below 2, invalid genetic parameters), cycle pool
//     cap exceeded for an exact cycle program. A malformed R/S graph
//     degrades to an empty selection plus a diagnostic; an exact cycle
//     program stopped by its node budget returns its incumbent with status
//     "feasible".
//   - A TimeLimit is enforced via a context deadline; an interrupted run
//     returns its best partial result with Stats.Cancelled set.
func Run(ctx context.Context, in *core.Instance, opts Options) (Result, []core.Diagnostic, error) {
	if in == nil {
		return Result{}, nil, ErrNilInstance
	}
	if opts.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.TimeLimit)
		defer cancel()
	}

	res := Result{Stats: Stats{Algorithm: opts.Algo.String()}}

	if opts.Algo == Matching {
		diags, err := runMatching(ctx, in, opts, &res)
		return res, diags, err
	}

	return runCycleSolver(ctx, in, opts, res)
}

// runMatching handles the bipartite back-end.
func runMatching(ctx context.Context, in *core.Instance, opts Options, res *Result) ([]core.Diagnostic, error) {
	b, diags, err := wantgraph.BuildBipartite(in)
	if err != nil {
		return diags, err
	}

	started := time.Now()
	m, err := match.MinWeightFullMatching(ctx, b)
	res.Stats.SolveTime = time.Since(started)

	switch {
	case err == nil:
		res.Selection = m.Selection()
		res.Stats.CyclesSelected = len(res.Selection)
		res.Stats.Status = "optimal"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		res.Stats.Cancelled = true
		res.Stats.Status = "feasible"
	default:
		// Malformed R/S graph: report, return the empty matching.
		diags = append(diags, core.Diagnostic{Message: fmt.Sprintf("matching failed: %v", err)})
		res.Stats.Status = "error"
	}

	return diags, nil
}

// runCycleSolver enumerates the pool and routes to a cycle back-end.
func runCycleSolver(ctx context.Context, in *core.Instance, opts Options, res Result) (Result, []core.Diagnostic, error) {
	g, diags, err := wantgraph.BuildWant(in)
	if err != nil {
		return res, diags, err
	}
	if opts.WeedOut {
		removed := g.WeedOut()
		res.Stats.WeededOut = len(removed)
		if len(removed) > 0 {
			diags = append(diags, core.Diagnostic{Message: fmt.Sprintf("weed-out removed %d unwanted items", len(removed))})
		}
	}

	pool, err := cycles.Collect(ctx, g, in, cycles.Options{MaxLen: opts.MaxCycleLen, MaxCycles: opts.MaxCycles})
	res.Stats.CyclesFound = len(pool)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Out of time before selection even started: empty, tagged.
		res.Stats.Cancelled = true
		res.Stats.Status = "feasible"
		return res, diags, nil
	case errors.Is(err, cycles.ErrTooManyCycles):
		if opts.Algo == ILPTrades || opts.Algo == ILPPlayers {
			// Exact programs need the full pool: explicit failure.
			return res, diags, err
		}
		diags = append(diags, core.Diagnostic{
			Message: fmt.Sprintf("cycle pool capped at %d: %s continues on the partial pool", len(pool), opts.Algo),
		})
	default:
		return res, diags, err
	}

	started := time.Now()
	switch opts.Algo {
	case ILPTrades, ILPPlayers:
		err = runILP(ctx, in, opts, pool, &res)
	case Genetic:
		err = runGenetic(ctx, in, opts, pool, &res)
	case Greedy:
		res.Selection, err = greedy.Solve(pool, in)
		res.Stats.Status = "heuristic"
	default:
		return res, diags, ErrUnknownAlgorithm
	}
	res.Stats.SolveTime = time.Since(started)
	res.Stats.CyclesSelected = len(res.Selection)

	return res, diags, err
}

// runILP builds and solves the requested cycle program.
func runILP(ctx context.Context, in *core.Instance, opts Options, pool []core.Cycle, res *Result) error {
	var (
		prog *ilp.Program
		err  error
	)
	if opts.Algo == ILPTrades {
		prog = ilp.NewTradeMax(pool)
	} else if prog, err = ilp.NewPlayerMax(pool, in); err != nil {
		return err
	}

	sol := prog.Solve(ctx, ilp.Options{MaxNodes: opts.MaxNodes})
	res.Selection = prog.Cycles(sol)
	res.Stats.ILPVariables = prog.NumVariables()
	res.Stats.ILPConstraints = prog.NumConstraints()
	res.Stats.Status = sol.Status.String()
	res.Stats.Cancelled = sol.Cancelled

	return nil
}

// runGenetic routes to the evolutionary back-end.
func runGenetic(ctx context.Context, in *core.Instance, opts Options, pool []core.Cycle, res *Result) error {
	ga := opts.GA
	if ga.Population == 0 {
		ga = genetic.DefaultOptions()
	}
	if opts.Seed != 0 {
		ga.Seed = opts.Seed
	}

	sel, stats, err := genetic.Solve(ctx, pool, in, ga)
	if err != nil {
		return err
	}
	res.Selection = sel
	res.Stats.Generations = stats.Generations
	res.Stats.Cancelled = stats.Cancelled
	res.Stats.Status = "heuristic"

	return nil
}
