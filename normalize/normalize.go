// Package normalize canonicalises a parsed instance before any solve:
//
//   - participant keys are case-folded; original casing is preserved in
//     Participant.Display,
//   - items whose owner is not a known participant move to the core.Unknown
//     bucket (their ids still resolve; they can never enter a cycle),
//   - each offer's wishlist is pruned to ids present in the item table and
//     never owned by the offering participant.
//
// Normalization returns a fresh Instance and diagnostics; the input is not
// mutated. Neither items nor participants change after this stage.
package normalize

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/mathtrade/core"
)

// Run normalises in and returns the canonical instance plus diagnostics.
//
// Contracts (on the returned instance):
//   - Users keys are case-folded; Display holds the first-seen original form.
//   - Every Item.Owner is a Users key or core.Unknown.
//   - Every wishlist id resolves in Items and is not owned by the offerer.
//
// Complexity: O(users + items + total wishlist length).
func Run(in *core.Instance) (*core.Instance, []core.Diagnostic) {
	var (
		out   = core.NewInstance()
		diags []core.Diagnostic
	)
	warn := func(format string, args ...interface{}) {
		diags = append(diags, core.Diagnostic{Message: fmt.Sprintf(format, args...)})
	}

	// Participants: case-fold keys, keep first-seen display casing.
	for name, p := range in.Users {
		folded := strings.ToLower(name)
		existing, ok := out.Users[folded]
		if !ok {
			existing = &core.Participant{
				Name:    folded,
				Display: name,
				Offers:  make(map[string]*core.Offer, len(p.Offers)),
			}
			out.Users[folded] = existing
		} else {
			warn("participants %q and %q collide after case-folding: offers merged", existing.Display, name)
		}
		for id, off := range p.Offers {
			wl := make([]string, len(off.Wishlist))
			copy(wl, off.Wishlist)
			existing.Offers[id] = &core.Offer{ItemID: id, Wishlist: wl}
		}
	}

	// Items: fold owners, bucket unresolvable owners under core.Unknown.
	for id, it := range in.Items {
		owner := strings.ToLower(it.Owner)
		if _, known := out.Users[owner]; !known {
			warn("owner %q of item %q is not a known participant", it.Owner, id)
			owner = core.Unknown
		}
		out.Items[id] = &core.Item{ID: id, Name: it.Name, Owner: owner}
	}

	// Wishlists: drop unknown and self-owned references.
	for _, p := range out.Users {
		for offerID, off := range p.Offers {
			kept := off.Wishlist[:0]
			var pruned []string
			for _, wish := range off.Wishlist {
				it, known := out.Items[wish]
				switch {
				case !known:
					pruned = append(pruned, wish)
				case it.Owner == p.Name:
					pruned = append(pruned, wish)
				default:
					kept = append(kept, wish)
				}
			}
			off.Wishlist = kept
			if len(pruned) > 0 {
				warn("offer %q of %q: dropped unavailable wishlist items %v", offerID, p.DisplayName(), pruned)
			}
		}
	}

	return out, diags
}
