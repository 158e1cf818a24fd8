// Package wantgraph - directed want-graph construction and queries.
package wantgraph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/katalvlaran/mathtrade/core"
)

// Sentinel errors.
var (
	// ErrNilInstance indicates a nil instance was passed to a builder.
	ErrNilInstance = errors.New("wantgraph: nil instance")

	// ErrVertexNotFound indicates a query for an id absent from the graph.
	ErrVertexNotFound = errors.New("wantgraph: vertex not found")
)

// Edge is one directed want: the owner of From accepts To in exchange.
type Edge struct {
	// From is the offered item, To the wanted one.
	From, To string

	// Priority is the 1-based wishlist position of To (1 = most wanted).
	Priority int

	// Weight is 1/Priority.
	Weight float64
}

// Graph is the directed want-graph. Vertices are item ids in sorted order;
// adjacency keeps wishlist order. Immutable after Build except through
// WeedOut.
type Graph struct {
	ids   []string         // vertex order: sorted item ids
	index map[string]int   // id -> position in ids
	out   map[string][]Edge
	inDeg map[string]int
	edges int
}

// BuildWant constructs the want-graph of in.
//
// Contracts:
//   - every item id becomes a vertex, including unwanted and Unknown-owned
//     items (the enumerator filters Unknown later),
//   - self-owner edges (owner(a) == owner(b)) are refused,
//   - wishlist entries that do not resolve are refused with a diagnostic
//     (cannot occur on a normalized instance; guards programmer error).
//
// Complexity: O(items·log items + total wishlist length).
func BuildWant(in *core.Instance) (*Graph, []core.Diagnostic, error) {
	if in == nil {
		return nil, nil, ErrNilInstance
	}

	g := &Graph{
		index: make(map[string]int, len(in.Items)),
		out:   make(map[string][]Edge, len(in.Items)),
		inDeg: make(map[string]int, len(in.Items)),
	}
	var diags []core.Diagnostic

	g.ids = make([]string, 0, len(in.Items))
	for id := range in.Items {
		g.ids = append(g.ids, id)
	}
	sort.Strings(g.ids)
	for i, id := range g.ids {
		g.index[id] = i
	}

	// Offers are visited in vertex order via the offered item's owner, so the
	// edge set is identical regardless of map iteration order.
	for _, offered := range g.ids {
		it := in.Items[offered]
		owner, ok := in.Users[it.Owner]
		if !ok {
			continue // Unknown bucket: no offers resolvable
		}
		off, ok := owner.Offers[offered]
		if !ok {
			continue
		}
		for i, wish := range off.Wishlist {
			wanted, known := in.Items[wish]
			if !known {
				diags = append(diags, core.Diagnostic{
					Message: fmt.Sprintf("wishlist item %q of offer %q is not available", wish, offered),
				})
				continue
			}
			if wanted.Owner == it.Owner {
				continue // never a self-owner edge
			}
			prio := i + 1
			g.out[offered] = append(g.out[offered], Edge{
				From:     offered,
				To:       wish,
				Priority: prio,
				Weight:   1 / float64(prio),
			})
			g.inDeg[wish]++
			g.edges++
		}
	}

	return g, diags, nil
}

// Vertices returns the vertex ids in canonical (sorted) order.
// The returned slice is owned by the graph; do not mutate.
func (g *Graph) Vertices() []string { return g.ids }

// Index returns the canonical position of id, or ErrVertexNotFound.
func (g *Graph) Index(id string) (int, error) {
	if i, ok := g.index[id]; ok {
		return i, nil
	}

	return 0, ErrVertexNotFound
}

// Has reports whether id is a vertex.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Neighbors returns the out-edges of id in wishlist (priority) order.
// The returned slice is owned by the graph; do not mutate.
func (g *Graph) Neighbors(id string) []Edge { return g.out[id] }

// InDegree returns the number of want edges pointing at id.
func (g *Graph) InDegree(id string) int { return g.inDeg[id] }

// NumVertices returns the vertex count.
func (g *Graph) NumVertices() int { return len(g.ids) }

// NumEdges returns the edge count.
func (g *Graph) NumEdges() int { return g.edges }

// WeedOut removes, in one sweep, every vertex with in-degree 0 - items
// nobody wants cannot sit on any cycle. Returns the removed ids in canonical
// order. All achievable cycles are preserved.
//
// Complexity: O(V + E).
func (g *Graph) WeedOut() []string {
	var removed []string
	for _, id := range g.ids {
		if g.inDeg[id] == 0 {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}

	gone := make(map[string]struct{}, len(removed))
	for _, id := range removed {
		gone[id] = struct{}{}
	}

	kept := g.ids[:0]
	for _, id := range g.ids {
		if _, dead := gone[id]; dead {
			delete(g.out, id)
			delete(g.index, id)
			delete(g.inDeg, id)
			continue
		}
		kept = append(kept, id)
	}
	g.ids = kept
	for i, id := range g.ids {
		g.index[id] = i
	}

	// Drop edges into removed vertices and recount.
	g.edges = 0
	for id, edges := range g.out {
		keptE := edges[:0]
		for _, e := range edges {
			if _, dead := gone[e.To]; dead {
				continue
			}
			keptE = append(keptE, e)
		}
		g.out[id] = keptE
		g.edges += len(keptE)
	}
	// Recompute in-degrees from surviving edges.
	for id := range g.inDeg {
		g.inDeg[id] = 0
	}
	for _, edges := range g.out {
		for _, e := range edges {
			g.inDeg[e.To]++
		}
	}

	return removed
}
