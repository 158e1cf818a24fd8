// Package solve defines the common solver contract - algorithm selection,
// configuration, run statistics - and the dispatcher routing one solve to
// the chosen back-end.
//
// Design goals:
//   - Interchangeability: all five selectors share one entry point and one
//     (Selection, Stats) result shape.
//   - Determinism: a fixed instance, options and seed reproduce the result.
//   - Cooperative cancellation: a context deadline/cancel is observed at
//     natural boundaries (between cycles, between generations, between
//     search nodes); interrupted runs return their best partial result
//     tagged Cancelled.
package solve

import (
	"errors"
	"time"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/cycles"
	"github.com/katalvlaran/mathtrade/genetic"
)

// Sentinel errors.
var (
	// ErrNilInstance indicates a nil instance was passed to Run.
	ErrNilInstance = errors.New("solve: nil instance")

	// ErrUnknownAlgorithm is returned for an unrecognised algorithm name.
	ErrUnknownAlgorithm = errors.New("solve: unknown algorithm")
)

// Algorithm enumerates the selector back-ends.
type Algorithm int

const (
	// Matching reduces the problem to minimum-weight full matching on the
	// bipartite R/S graph (exact).
	Matching Algorithm = iota

	// ILPTrades picks disjoint cycles maximizing traded items (exact).
	ILPTrades

	// ILPPlayers picks disjoint cycles maximizing distinct participants (exact).
	ILPPlayers

	// Genetic searches for a high-participation selection heuristically.
	Genetic

	// Greedy packs cycles longest-first with no backtracking.
	Greedy
)

// Algorithm names as accepted on the command line.
const (
	NameMatching   = "matching"
	NameILPTrades  = "ilp-trades"
	NameILPPlayers = "ilp-players"
	NameGenetic    = "genetic"
	NameGreedy     = "greedy"
)

// ParseAlgorithm maps a CLI name to its Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case NameMatching:
		return Matching, nil
	case NameILPTrades:
		return ILPTrades, nil
	case NameILPPlayers:
		return ILPPlayers, nil
	case NameGenetic:
		return Genetic, nil
	case NameGreedy:
		return Greedy, nil
	default:
		return 0, ErrUnknownAlgorithm
	}
}

// String returns the CLI name.
func (a Algorithm) String() string {
	switch a {
	case Matching:
		return NameMatching
	case ILPTrades:
		return NameILPTrades
	case ILPPlayers:
		return NameILPPlayers
	case Genetic:
		return NameGenetic
	case Greedy:
		return NameGreedy
	default:
		return "unknown"
	}
}

// Options configures one solve. Zero value is not meaningful; start from
// DefaultOptions and override.
type Options struct {
	// Algo selects the back-end. Default: ILPTrades.
	Algo Algorithm

	// MaxCycleLen bounds enumerated cycle length (cycle solvers only).
	MaxCycleLen int

	// MaxCycles caps the materialised cycle pool. Exceeding it is fatal for
	// the exact cycle programs and degrades (with a diagnostic) for the
	// heuristics.
	MaxCycles int

	// WeedOut removes unwanted (in-degree-0) items before enumeration.
	WeedOut bool

	// Seed drives the genetic solver; 0 selects the fixed default stream.
	Seed int64

	// TimeLimit bounds wall-clock time; zero means no limit. Implemented by
	// a context deadline observed cooperatively.
	TimeLimit time.Duration

	// MaxNodes bounds the branch-and-bound search (ILP back-ends).
	// Zero selects the back-end default; negative means unlimited.
	MaxNodes int64

	// GA carries the genetic parameters; Seed above overrides GA.Seed.
	GA genetic.Options
}

// DefaultOptions returns production defaults: exact trade maximization over
// cycles of length ≤ 8, pool cap 1e6, deterministic seed.
func DefaultOptions() Options {
	return Options{
		Algo:        ILPTrades,
		MaxCycleLen: cycles.DefaultMaxLen,
		MaxCycles:   cycles.DefaultMaxCycles,
		GA:          genetic.DefaultOptions(),
	}
}

// Stats is the per-solve report every back-end fills.
type Stats struct {
	// Algorithm is the back-end's CLI name.
	Algorithm string

	// CyclesFound is the enumerated pool size (0 for matching).
	CyclesFound int

	// CyclesSelected is the number of cycles in the selection.
	CyclesSelected int

	// WeededOut counts items removed by the weed-out pre-pass.
	WeededOut int

	// ILPVariables / ILPConstraints describe the integer program
	// (exact cycle back-ends only).
	ILPVariables   int
	ILPConstraints int

	// Generations is the executed generation count (genetic only).
	Generations int

	// Status: "optimal" for exact completions, "feasible" for interrupted
	// exact runs and for any run cancelled before selection, "heuristic" for
	// genetic and greedy, "error" when the matching back-end fails.
	Status string

	// Cancelled is set when the run was interrupted by deadline or cancel.
	Cancelled bool

	// SolveTime is the selector's wall time (excludes parsing and graph
	// construction).
	SolveTime time.Duration
}

// Result pairs the chosen selection with its statistics.
type Result struct {
	Selection core.Selection
	Stats     Stats
}
