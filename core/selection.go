// Package core - trade-side types: cycles, selections, exchange records.
package core

import "sort"

// Cycle is an ordered sequence of distinct item ids closing a loop in the
// want-graph. The owner of Cycle[i] gives that item and receives
// Cycle[(i+1) mod len].
type Cycle []string

// Contains reports whether the cycle includes itemID.
func (c Cycle) Contains(itemID string) bool {
	for _, id := range c {
		if id == itemID {
			return true
		}
	}

	return false
}

// Key returns a canonical identity for the cycle as an unordered item set:
// the sorted ids joined by '\x1f'. Two rotations (or reversals) over the
// same items collapse to one key. Used for diversity accounting and dedup.
func (c Cycle) Key() string {
	ids := make([]string, len(c))
	copy(ids, c)
	sort.Strings(ids)

	var b []byte
	for i, id := range ids {
		if i > 0 {
			b = append(b, '\x1f')
		}
		b = append(b, id...)
	}

	return string(b)
}

// Selection is a set of cycles chosen by a solver.
// Invariant: item-disjoint - no item id appears in two cycles.
type Selection []Cycle

// NumItems returns the total number of items across all cycles.
func (s Selection) NumItems() int {
	n := 0
	for _, c := range s {
		n += len(c)
	}

	return n
}

// Disjoint verifies the item-disjointness invariant.
func (s Selection) Disjoint() bool {
	seen := make(map[string]struct{})
	for _, c := range s {
		for _, id := range c {
			if _, dup := seen[id]; dup {
				return false
			}
			seen[id] = struct{}{}
		}
	}

	return true
}

// Participants returns the number of distinct owners appearing in s,
// resolving ownership through in. The Unknown bucket never counts.
func (s Selection) Participants(in *Instance) int {
	owners := make(map[string]struct{})
	for _, c := range s {
		for _, id := range c {
			if o := in.Owner(id); o != Unknown {
				owners[o] = struct{}{}
			}
		}
	}

	return len(owners)
}

// Exchange is one realised hand-over, derived from a cycle or a matching:
// Giver hands GivenItem away and receives ReceivedItem from Receiver.
type Exchange struct {
	// Giver is the display name of the participant giving GivenItem.
	Giver string

	// Receiver is the display name of the counterparty owning ReceivedItem.
	Receiver string

	// GivenItem is the id of the item Giver gives away.
	GivenItem string

	// ReceivedItem is the id of the item Giver receives in return.
	ReceivedItem string
}
