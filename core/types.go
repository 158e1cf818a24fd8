// Package core - central instance types and sentinel errors.
//
// This file declares Participant, Item, Offer, Instance, Diagnostic and the
// NewInstance constructor. Trade-side types (Cycle, Selection, Exchange) live
// in selection.go; JSON interchange in json.go.
package core

import (
	"errors"
	"fmt"
)

// Unknown is the sentinel owner assigned to items whose declared owner does
// not resolve to a known participant. Items in the Unknown bucket stay in the
// item table (references still resolve) but never enter a trade cycle.
const Unknown = "unknown"

// Sentinel errors for instance construction and lookup.
var (
	// ErrNilInstance indicates a nil *Instance was passed where one is required.
	ErrNilInstance = errors.New("core: nil instance")

	// ErrEmptyItemID indicates an item with an empty id.
	ErrEmptyItemID = errors.New("core: item id is empty")

	// ErrEmptyUserName indicates a participant with an empty name.
	ErrEmptyUserName = errors.New("core: participant name is empty")

	// ErrItemNotFound indicates an operation referenced a non-existent item.
	ErrItemNotFound = errors.New("core: item not found")

	// ErrUserNotFound indicates an operation referenced a non-existent participant.
	ErrUserNotFound = errors.New("core: participant not found")

	// ErrForeignOffer indicates an offer whose item is owned by someone else.
	ErrForeignOffer = errors.New("core: offered item owned by another participant")
)

// Item is a tradable unit: a globally unique id, a display name, one owner.
type Item struct {
	// ID uniquely identifies the item within its Instance.
	ID string

	// Name is the human-readable display name (defaults to ID).
	Name string

	// Owner is the owning participant's key in Instance.Users,
	// or Unknown when the declared owner never resolved.
	Owner string
}

// Offer is an owner's declaration that one item is available in exchange for
// any single item from its wishlist.
type Offer struct {
	// ItemID is the offered item.
	ItemID string

	// Wishlist holds acceptable item ids in priority order;
	// priority of Wishlist[i] is i+1 (lower = more preferred).
	Wishlist []string
}

// Participant represents one trader.
type Participant struct {
	// Name is the participant's key in Instance.Users. Before normalization
	// this is the as-written form; after, the case-folded canonical form.
	Name string

	// Display preserves the original casing once Name has been canonicalised.
	// Empty until the normalizer runs; fall back to Name.
	Display string

	// Offers maps offered item id to its Offer.
	Offers map[string]*Offer
}

// DisplayName returns the original-casing form when known, Name otherwise.
func (p *Participant) DisplayName() string {
	if p.Display != "" {
		return p.Display
	}

	return p.Name
}

// Instance is the canonical problem: participants and items, id-keyed.
type Instance struct {
	// Users maps participant key to Participant.
	Users map[string]*Participant

	// Items maps item id to Item.
	Items map[string]*Item
}

// Diagnostic is one non-fatal parser/normalizer observation. Stages
// accumulate diagnostics instead of failing; the reporter counts them.
type Diagnostic struct {
	// Line is the 1-based source line, 0 when not tied to a line.
	Line int

	// Message describes the condition.
	Message string
}

// NewInstance returns an empty Instance with allocated tables.
func NewInstance() *Instance {
	return &Instance{
		Users: make(map[string]*Participant),
		Items: make(map[string]*Item),
	}
}

// EnsureUser returns the participant registered under name, creating it on
// first use. Empty names are rejected with ErrEmptyUserName.
func (in *Instance) EnsureUser(name string) (*Participant, error) {
	if name == "" {
		return nil, ErrEmptyUserName
	}
	if p, ok := in.Users[name]; ok {
		return p, nil
	}
	p := &Participant{Name: name, Offers: make(map[string]*Offer)}
	in.Users[name] = p

	return p, nil
}

// InsertItem registers (id, name, owner) in the item table and returns the id
// the item ended up under.
//
// Collision policy (copy-suffixing):
//   - free id: inserted as-is;
//   - taken by the same owner: idempotent, the existing id is returned and
//     the table is untouched;
//   - taken by a different owner: the smallest suffix "-COPY<k>" making the
//     id unique is appended and the suffixed item inserted.
//
// The second return reports whether a suffix was applied, so callers can emit
// a diagnostic.
func (in *Instance) InsertItem(id, name, owner string) (string, bool, error) {
	if id == "" {
		return "", false, ErrEmptyItemID
	}

	existing, taken := in.Items[id]
	if taken && existing.Owner == owner {
		return id, false, nil
	}
	suffixed := false
	if taken {
		id = in.nextCopyID(id)
		suffixed = true
	}
	if name == "" {
		name = id
	}
	in.Items[id] = &Item{ID: id, Name: name, Owner: owner}

	return id, suffixed, nil
}

// nextCopyID appends "-COPY<k>" with the smallest k ≥ 1 that is free.
func (in *Instance) nextCopyID(id string) string {
	var (
		k         = 1
		candidate = copyID(id, k)
	)
	for {
		if _, taken := in.Items[candidate]; !taken {
			return candidate
		}
		k++
		candidate = copyID(id, k)
	}
}

// copyID renders the k-th disambiguation candidate for id.
func copyID(id string, k int) string {
	return fmt.Sprintf("%s-COPY%d", id, k)
}

// AddOffer records an offer under the owning participant. The offered item
// must already be registered and owned by owner (ErrForeignOffer otherwise).
func (in *Instance) AddOffer(owner, itemID string, wishlist []string) error {
	p, ok := in.Users[owner]
	if !ok {
		return ErrUserNotFound
	}
	it, ok := in.Items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	if it.Owner != owner {
		return ErrForeignOffer
	}
	p.Offers[itemID] = &Offer{ItemID: itemID, Wishlist: wishlist}

	return nil
}

// Owner returns the owner key of itemID, or Unknown when the item is absent.
func (in *Instance) Owner(itemID string) string {
	if it, ok := in.Items[itemID]; ok {
		return it.Owner
	}

	return Unknown
}

// ItemName returns the display name of itemID, falling back to the id itself.
func (in *Instance) ItemName(itemID string) string {
	if it, ok := in.Items[itemID]; ok && it.Name != "" {
		return it.Name
	}

	return itemID
}

// NumOffers counts offers across all participants.
func (in *Instance) NumOffers() int {
	n := 0
	for _, p := range in.Users {
		n += len(p.Offers)
	}

	return n
}
