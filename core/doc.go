// Package core defines the canonical math-trade problem instance: participants,
// items, offers, trade cycles, selections and exchange records.
//
// # Model
//
// A Participant owns Items and publishes Offers. An Offer pairs one offered
// item with an ordered wishlist of item ids the owner would accept in return
// (index 0 = most preferred). An Instance is the pair of id-keyed tables
// (Users, Items) that every later stage consumes.
//
// Invariants (established by the parser and the normalizer, relied upon by
// every solver):
//
//   - every Item.Owner resolves in Users (or is the Unknown sentinel),
//   - every Offer's item id resolves in Items and belongs to its publisher,
//   - after normalization a wishlist never references an unknown item and
//     never an item owned by the offering participant.
//
// A Cycle is an ordered sequence of distinct item ids closing a loop in the
// want-graph: the owner of Cycle[i] gives it away and receives Cycle[i+1]
// (wrapping). A Selection is an item-disjoint set of cycles.
//
// Instances are immutable after normalization; cycles and selections live for
// the duration of one solve.
//
// # Serialisation
//
// LoadInstance / SaveInstance read and write the interchange JSON shape
//
//	{ "users": { "<name>": { "offers": { "<item-id>": ["<wish-id>", ...] } } },
//	  "items": { "<item-id>": { "owner": "<name>", "name": "<display>" } } }
//
// with wishlists kept in priority order.
package core
