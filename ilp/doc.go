// Package ilp selects an item-disjoint subset of enumerated trade cycles by
// solving a binary program exactly.
//
// # Formulations
//
// One Boolean x_c per cycle; for every item i the cycles containing i sum to
// at most one (item-disjointness).
//
//	MaxTrades:  maximize Σ |c|·x_c
//	MaxPlayers: maximize Σ y_u over participants, with y_u ≤ Σ x_c over
//	            cycles touching u, y_u ≥ x_c for every such cycle, and the
//	            per-participant give/receive balance (structural in cycle
//	            semantics; asserted in tests).
//
// # Back-end
//
// An exact depth-first branch-and-bound over the cycle variables: include
// branch first, admissible remaining-value bound, deterministic branch order
// (cycles pre-sorted by objective contribution, ties by enumeration order).
// Run to completion it proves optimality (StatusOptimal); interrupted by
// cancellation or the node budget it returns the incumbent as
// StatusFeasible - never silently.
//
// Variable and constraint counts of the corresponding integer program are
// exposed for the report.
package ilp
