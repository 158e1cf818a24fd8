package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mathtrade/core"
)

// TestInsertItem_CopySuffixing covers the collision policy: fresh ids insert
// verbatim, same-owner re-insertion is idempotent, different owners receive
// the smallest free -COPY<k> suffix.
func TestInsertItem_CopySuffixing(t *testing.T) {
	in := core.NewInstance()

	id, suffixed, err := in.InsertItem("0001-GAME", "Chess", "alice")
	require.NoError(t, err)
	assert.Equal(t, "0001-GAME", id)
	assert.False(t, suffixed)

	// Same owner again: idempotent, table untouched.
	id, suffixed, err = in.InsertItem("0001-GAME", "Chess", "alice")
	require.NoError(t, err)
	assert.Equal(t, "0001-GAME", id)
	assert.False(t, suffixed)
	assert.Len(t, in.Items, 1)

	// Different owner: first copy.
	id, suffixed, err = in.InsertItem("0001-GAME", "Chess", "bob")
	require.NoError(t, err)
	assert.Equal(t, "0001-GAME-COPY1", id)
	assert.True(t, suffixed)

	// Third owner: smallest free k is 2.
	id, suffixed, err = in.InsertItem("0001-GAME", "Chess", "carol")
	require.NoError(t, err)
	assert.Equal(t, "0001-GAME-COPY2", id)
	assert.True(t, suffixed)

	// The original reference still resolves to the first insertion.
	assert.Equal(t, "alice", in.Items["0001-GAME"].Owner)
	assert.Len(t, in.Items, 3)
}

func TestInsertItem_EmptyID(t *testing.T) {
	in := core.NewInstance()
	_, _, err := in.InsertItem("", "x", "alice")
	assert.ErrorIs(t, err, core.ErrEmptyItemID)
}

// TestAddOffer_Guards exercises the ownership checks behind offers.
func TestAddOffer_Guards(t *testing.T) {
	in := core.NewInstance()
	_, err := in.EnsureUser("alice")
	require.NoError(t, err)
	_, _, err = in.InsertItem("item1", "item1", "alice")
	require.NoError(t, err)
	_, _, err = in.InsertItem("item2", "item2", "bob")
	require.NoError(t, err)

	assert.ErrorIs(t, in.AddOffer("ghost", "item1", nil), core.ErrUserNotFound)
	assert.ErrorIs(t, in.AddOffer("alice", "missing", nil), core.ErrItemNotFound)
	assert.ErrorIs(t, in.AddOffer("alice", "item2", nil), core.ErrForeignOffer)

	require.NoError(t, in.AddOffer("alice", "item1", []string{"item2"}))
	assert.Equal(t, []string{"item2"}, in.Users["alice"].Offers["item1"].Wishlist)
}

// TestInstanceJSON_RoundTrip: marshalling and re-loading yields an
// equivalent instance (the parser idempotence property at the JSON layer).
func TestInstanceJSON_RoundTrip(t *testing.T) {
	in := core.NewInstance()
	for _, u := range []string{"Alice", "Bob"} {
		_, err := in.EnsureUser(u)
		require.NoError(t, err)
	}
	_, _, err := in.InsertItem("item1", "First Game", "Alice")
	require.NoError(t, err)
	_, _, err = in.InsertItem("item2", "Second Game", "Bob")
	require.NoError(t, err)
	require.NoError(t, in.AddOffer("Alice", "item1", []string{"item2"}))
	require.NoError(t, in.AddOffer("Bob", "item2", []string{"item1"}))

	data, err := json.Marshal(in)
	require.NoError(t, err)

	back := core.NewInstance()
	require.NoError(t, json.Unmarshal(data, back))

	require.Len(t, back.Users, 2)
	require.Len(t, back.Items, 2)
	assert.Equal(t, "First Game", back.Items["item1"].Name)
	assert.Equal(t, "Alice", back.Items["item1"].Owner)
	assert.Equal(t, []string{"item2"}, back.Users["Alice"].Offers["item1"].Wishlist)
	assert.Equal(t, []string{"item1"}, back.Users["Bob"].Offers["item2"].Wishlist)

	// Re-encoding the loaded instance yields the same JSON document.
	again, err := json.Marshal(back)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

// TestSelection_Invariants covers the disjointness check and counters.
func TestSelection_Invariants(t *testing.T) {
	sel := core.Selection{
		core.Cycle{"a", "b"},
		core.Cycle{"c", "d", "e"},
	}
	assert.True(t, sel.Disjoint())
	assert.Equal(t, 5, sel.NumItems())

	sel = append(sel, core.Cycle{"e", "f"})
	assert.False(t, sel.Disjoint())
}

func TestCycle_Key_RotationInvariant(t *testing.T) {
	a := core.Cycle{"x", "y", "z"}
	b := core.Cycle{"y", "z", "x"}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), core.Cycle{"x", "y"}.Key())
}
