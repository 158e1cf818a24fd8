// Package wantgraph_test - want-graph construction, weights, weed-out and
// the bipartite R/S view.
package wantgraph_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/mathtrade/core"
	"github.com/katalvlaran/mathtrade/wantgraph"
)

// ring builds a normalized instance of n single-item participants whose
// wishlists form one directed ring item0→item1→…→item0.
func ring(t *testing.T, n int) *core.Instance {
	t.Helper()
	in := core.NewInstance()
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	if n > len(names) {
		t.Fatalf("ring fixture supports up to %d participants", len(names))
	}
	items := []string{"item1", "item2", "item3", "item4", "item5", "item6"}
	for i := 0; i < n; i++ {
		if _, err := in.EnsureUser(names[i]); err != nil {
			t.Fatalf("EnsureUser: %v", err)
		}
		if _, _, err := in.InsertItem(items[i], items[i], names[i]); err != nil {
			t.Fatalf("InsertItem: %v", err)
		}
	}
	for i := 0; i < n; i++ {
		want := items[(i+1)%n]
		if err := in.AddOffer(names[i], items[i], []string{want}); err != nil {
			t.Fatalf("AddOffer: %v", err)
		}
	}

	return in
}

//  1. Ring instance: one edge per item, weight 1 (priority 1), canonical
//     sorted vertex order.
func TestBuildWant_Ring(t *testing.T) {
	in := ring(t, 3)
	g, diags, err := wantgraph.BuildWant(in)
	if err != nil {
		t.Fatalf("BuildWant failed: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got := g.NumVertices(); got != 3 {
		t.Fatalf("NumVertices = %d, want 3", got)
	}
	if got := g.NumEdges(); got != 3 {
		t.Fatalf("NumEdges = %d, want 3", got)
	}

	wantOrder := []string{"item1", "item2", "item3"}
	for i, id := range g.Vertices() {
		if id != wantOrder[i] {
			t.Fatalf("vertex order[%d] = %s, want %s", i, id, wantOrder[i])
		}
	}

	edges := g.Neighbors("item1")
	if len(edges) != 1 || edges[0].To != "item2" {
		t.Fatalf("item1 neighbors = %v, want single edge to item2", edges)
	}
	if edges[0].Weight != 1 || edges[0].Priority != 1 {
		t.Fatalf("edge weight/priority = %v/%v, want 1/1", edges[0].Weight, edges[0].Priority)
	}
}

// 2. Wishlist priorities map to weights 1/1, 1/2, 1/3, in wishlist order.
func TestBuildWant_PriorityWeights(t *testing.T) {
	in := core.NewInstance()
	for _, u := range []string{"alice", "bob", "carol", "dave"} {
		if _, err := in.EnsureUser(u); err != nil {
			t.Fatal(err)
		}
	}
	owners := map[string]string{"a": "alice", "b": "bob", "c": "carol", "d": "dave"}
	for id, owner := range owners {
		if _, _, err := in.InsertItem(id, id, owner); err != nil {
			t.Fatal(err)
		}
	}
	if err := in.AddOffer("alice", "a", []string{"b", "c", "d"}); err != nil {
		t.Fatal(err)
	}

	g, _, err := wantgraph.BuildWant(in)
	if err != nil {
		t.Fatalf("BuildWant failed: %v", err)
	}
	edges := g.Neighbors("a")
	if len(edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3", len(edges))
	}
	for i, e := range edges {
		wantW := 1 / float64(i+1)
		if e.Priority != i+1 || e.Weight != wantW {
			t.Fatalf("edge %d: priority=%d weight=%v, want %d/%v", i, e.Priority, e.Weight, i+1, wantW)
		}
	}
}

// 3. Self-owner wishlist entries never become edges.
func TestBuildWant_RefusesSelfOwnerEdges(t *testing.T) {
	in := core.NewInstance()
	if _, err := in.EnsureUser("alice"); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"a1", "a2"} {
		if _, _, err := in.InsertItem(id, id, "alice"); err != nil {
			t.Fatal(err)
		}
	}
	if err := in.AddOffer("alice", "a1", []string{"a2"}); err != nil {
		t.Fatal(err)
	}

	g, _, err := wantgraph.BuildWant(in)
	if err != nil {
		t.Fatalf("BuildWant failed: %v", err)
	}
	if g.NumEdges() != 0 {
		t.Fatalf("NumEdges = %d, want 0 (self-owner edge refused)", g.NumEdges())
	}
}

// 4. Weed-out removes exactly the unwanted items and their outgoing edges.
func TestWeedOut(t *testing.T) {
	in := ring(t, 3)
	// Dave's item4 wants into the ring, but nobody wants item4.
	if _, err := in.EnsureUser("dave"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := in.InsertItem("item4", "item4", "dave"); err != nil {
		t.Fatal(err)
	}
	if err := in.AddOffer("dave", "item4", []string{"item1"}); err != nil {
		t.Fatal(err)
	}

	g, _, err := wantgraph.BuildWant(in)
	if err != nil {
		t.Fatalf("BuildWant failed: %v", err)
	}
	if g.NumVertices() != 4 || g.NumEdges() != 4 {
		t.Fatalf("pre weed-out V/E = %d/%d, want 4/4", g.NumVertices(), g.NumEdges())
	}

	removed := g.WeedOut()
	if len(removed) != 1 || removed[0] != "item4" {
		t.Fatalf("removed = %v, want [item4]", removed)
	}
	if g.Has("item4") {
		t.Fatal("item4 still present after weed-out")
	}
	if g.NumVertices() != 3 || g.NumEdges() != 3 {
		t.Fatalf("post weed-out V/E = %d/%d, want 3/3", g.NumVertices(), g.NumEdges())
	}
	// In-degrees consistent after the sweep.
	for _, id := range g.Vertices() {
		if g.InDegree(id) != 1 {
			t.Fatalf("InDegree(%s) = %d, want 1", id, g.InDegree(id))
		}
	}
}

// 5. Bipartite view: self-edges on the diagonal, weight-1 want edges, +Inf
// elsewhere.
func TestBuildBipartite(t *testing.T) {
	in := ring(t, 2)
	b, _, err := wantgraph.BuildBipartite(in)
	if err != nil {
		t.Fatalf("BuildBipartite failed: %v", err)
	}
	if b.N() != 2 {
		t.Fatalf("N = %d, want 2", b.N())
	}
	for r := 0; r < 2; r++ {
		if b.Cost[r][r] != wantgraph.SelfEdgeWeight {
			t.Fatalf("diagonal [%d][%d] = %v, want SelfEdgeWeight", r, r, b.Cost[r][r])
		}
	}
	if b.Cost[0][1] != 1 || b.Cost[1][0] != 1 {
		t.Fatalf("want edges = %v/%v, want 1/1", b.Cost[0][1], b.Cost[1][0])
	}
}

func TestBuildBipartite_MissingEdgesAreInf(t *testing.T) {
	in := ring(t, 3)
	b, _, err := wantgraph.BuildBipartite(in)
	if err != nil {
		t.Fatalf("BuildBipartite failed: %v", err)
	}
	// item1 wants item2 only: the item1_R—item3_S slot must be absent.
	if !math.IsInf(b.Cost[0][2], 1) {
		t.Fatalf("Cost[0][2] = %v, want +Inf", b.Cost[0][2])
	}
}

func TestBuildWant_NilInstance(t *testing.T) {
	if _, _, err := wantgraph.BuildWant(nil); err != wantgraph.ErrNilInstance {
		t.Fatalf("err = %v, want ErrNilInstance", err)
	}
}
