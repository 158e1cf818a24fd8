// Package core - interchange JSON for instances.
//
// The on-disk shape mirrors the wants processor's output exactly:
//
//	{ "users": { "<name>": { "offers": { "<item-id>": ["<wish-id>", ...] } } },
//	  "items": { "<item-id>": { "owner": "<name>", "name": "<display>" } } }
//
// encoding/json sorts map keys on output, so serialisation is deterministic.
package core

import (
	"encoding/json"
	"fmt"
	"os"
)

// userJSON / itemJSON are the interchange DTOs.
type userJSON struct {
	Offers map[string][]string `json:"offers"`
}

type itemJSON struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

type instanceJSON struct {
	Users map[string]userJSON `json:"users"`
	Items map[string]itemJSON `json:"items"`
}

// MarshalJSON renders the instance in the interchange shape.
func (in *Instance) MarshalJSON() ([]byte, error) {
	doc := instanceJSON{
		Users: make(map[string]userJSON, len(in.Users)),
		Items: make(map[string]itemJSON, len(in.Items)),
	}
	for name, p := range in.Users {
		u := userJSON{Offers: make(map[string][]string, len(p.Offers))}
		for id, off := range p.Offers {
			wl := make([]string, len(off.Wishlist))
			copy(wl, off.Wishlist)
			u.Offers[id] = wl
		}
		doc.Users[name] = u
	}
	for id, it := range in.Items {
		doc.Items[id] = itemJSON{Owner: it.Owner, Name: it.Name}
	}

	return json.Marshal(doc)
}

// UnmarshalJSON rebuilds the instance from the interchange shape.
// Offers referencing items absent from the items table are kept verbatim;
// the normalizer prunes them (with diagnostics) rather than the decoder.
func (in *Instance) UnmarshalJSON(data []byte) error {
	var doc instanceJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	in.Users = make(map[string]*Participant, len(doc.Users))
	in.Items = make(map[string]*Item, len(doc.Items))

	for id, it := range doc.Items {
		name := it.Name
		if name == "" {
			name = id
		}
		in.Items[id] = &Item{ID: id, Name: name, Owner: it.Owner}
	}
	for name, u := range doc.Users {
		p := &Participant{Name: name, Offers: make(map[string]*Offer, len(u.Offers))}
		for id, wl := range u.Offers {
			wishlist := make([]string, len(wl))
			copy(wishlist, wl)
			p.Offers[id] = &Offer{ItemID: id, Wishlist: wishlist}
		}
		in.Users[name] = p
	}

	return nil
}

// LoadInstance reads an instance file. Missing files and malformed JSON are
// fatal: the returned error wraps the underlying cause.
func LoadInstance(path string) (*Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("core: read instance: %w", err)
	}
	in := NewInstance()
	if err = json.Unmarshal(data, in); err != nil {
		return nil, fmt.Errorf("core: decode instance %s: %w", path, err)
	}

	return in, nil
}

// SaveInstance writes the instance to path, indented, 0644.
func SaveInstance(in *Instance, path string) error {
	if in == nil {
		return ErrNilInstance
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("core: encode instance: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
