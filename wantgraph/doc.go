// Package wantgraph builds the two graph views every solver consumes:
//
//   - the directed want-graph over items: edge a→b exists iff the offer of a
//     lists b in its wishlist and b belongs to a different participant;
//     edge weight is 1/priority (higher = more preferred),
//   - the bipartite R/S graph for the matching solver: each item x splits
//     into a receiver vertex x_R and a sender vertex x_S; the self pair
//     x_R—x_S carries a very large weight (the "keep your own item" option),
//     every want edge a→b becomes a_R—b_S of weight 1.
//
// Vertex order is the sorted item-id order, fixed at build time, so every
// traversal downstream is reproducible. Neighbor lists keep wishlist
// (priority) order.
//
// WeedOut is an optional pre-pass for heuristic solvers: it removes every
// vertex nobody wants (in-degree 0) in one sweep, shrinking the cycle search
// space without losing any achievable cycle.
package wantgraph
