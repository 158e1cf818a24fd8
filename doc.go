// Package mathtrade solves the math-trade problem in Go: given participants,
// their offered items and ranked wishlists, compute item-for-item exchange
// cycles under the rule that whoever gives an item receives exactly one back.
//
// 🚀 What is mathtrade?
//
//	A deterministic solver toolkit built around one canonical instance model:
//
//	  • Wants parsing: the community wants-file format → canonical instance
//	  • Graph views: the directed want-graph and the bipartite R/S reduction
//	  • Five selectors behind one contract: exact matching, two exact
//	    cycle programs (trade-max, player-max), a genetic heuristic, greedy
//
// ✨ Why choose mathtrade?
//
//   - Exact where it matters — matching and both cycle programs prove optimality
//   - Reproducible          — seeded RNG, canonical orderings, no time-based randomness
//   - Honest reporting      — participation, effectiveness, model sizes, timings
//   - Pure Go               — no cgo solver bindings, no hidden dependencies
//
// The pipeline runs leaves-first:
//
//	wants/      — text → core.Instance + diagnostics
//	normalize/  — case-folding, unknown-owner bucketing, wishlist pruning
//	wantgraph/  — want-graph & bipartite builders, weed-out pre-pass
//	cycles/     — bounded simple-cycle enumeration (lazy, deterministic)
//	match/ ilp/ genetic/ greedy/ — the selector back-ends
//	solve/      — the shared contract and dispatcher
//	report/ viz/ — exchanges, metrics artifact, exchange-graph HTML
//
// Quick ASCII example:
//
//	item1 ──▶ item2
//	  ▲         │
//	  └─────────┘
//
//	Alice offers item1 and wants item2; Bob offers item2 and wants item1:
//	one 2-cycle, two exchanges, everybody trades.
//
//	go get github.com/katalvlaran/mathtrade
package mathtrade
