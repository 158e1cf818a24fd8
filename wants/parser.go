// Package wants - the wants-file parser.
//
// Contracts:
//   - Parse never fails on content: every malformed construct degrades to a
//     Diagnostic and the line is skipped.
//   - The produced Instance satisfies: every offer's item is registered and
//     owned by its publisher; wishlists only reference ids registered at the
//     time the offer line was read.
//   - Deterministic: output depends only on the input byte stream.
package wants

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/katalvlaran/mathtrade/core"
)

// Section markers.
const (
	beginOfficialNames = "!BEGIN-OFFICIAL-NAMES"
	endOfficialNames   = "!END-OFFICIAL-NAMES"
)

// replacementRune marks bytes that did not decode as UTF-8.
const replacementRune = '�'

// Line-shape patterns (anchored; compiled once).
var (
	// #pragma user "Alice"  /  #pragma user Alice
	pragmaUserRe = regexp.MustCompile(`^#pragma user\s+"?([\w-]+)"?$`)

	// (Alice) 0001-ITEM : 0002-ITEM, 0003-ITEM % comment
	offerRe = regexp.MustCompile(`^\(([\w-]+)\)\s+(\S+)(?:\s*:\s*(.*))?$`)

	// 0001-ITEM ==> "Some Name" (from Alice)
	officialNameRe = regexp.MustCompile(`^(\S+)\s+==>\s+"([^"]+)"\s+\(from\s+([\w-]+)\)$`)

	// wishlist separators: runs of whitespace and/or commas
	wishlistSepRe = regexp.MustCompile(`[\s,]+`)
)

// Parse reads wants text from r and returns the Instance together with all
// diagnostics, in input order.
//
// Complexity: O(bytes + offers·wishlist).
func Parse(r io.Reader) (*core.Instance, []core.Diagnostic, error) {
	var (
		in    = core.NewInstance()
		diags []core.Diagnostic

		currentUser     string
		inOfficialNames bool

		sc   = bufio.NewScanner(r)
		line string
		ln   int
	)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	warn := func(format string, args ...interface{}) {
		diags = append(diags, core.Diagnostic{Line: ln, Message: fmt.Sprintf(format, args...)})
	}

	for sc.Scan() {
		ln++
		line = strings.TrimSpace(strings.ToValidUTF8(sc.Text(), string(replacementRune)))

		switch {
		case strings.HasPrefix(line, beginOfficialNames):
			inOfficialNames = true
			continue
		case strings.HasPrefix(line, endOfficialNames):
			inOfficialNames = false
			continue
		}

		if inOfficialNames {
			parseOfficialName(in, line, warn)
			continue
		}

		if m := pragmaUserRe.FindStringSubmatch(line); m != nil {
			currentUser = m[1]
			if _, err := in.EnsureUser(currentUser); err != nil {
				warn("invalid pragma user %q: %v", currentUser, err)
				currentUser = ""
			}
			continue
		}

		// Blank lines and non-pragma comments carry no content.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if m := offerRe.FindStringSubmatch(line); m != nil && currentUser != "" {
			parseOffer(in, m, currentUser, warn)
			continue
		}

		warn("unrecognised line: %s", line)
	}
	if err := sc.Err(); err != nil {
		return nil, diags, fmt.Errorf("wants: read: %w", err)
	}

	return in, diags, nil
}

// ParseFile opens and parses path. A missing or unreadable file is fatal.
func ParseFile(path string) (*core.Instance, []core.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("wants: open: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// parseOfficialName handles one line inside the official-names section.
func parseOfficialName(in *core.Instance, line string, warn func(string, ...interface{})) {
	if line == "" {
		return
	}
	m := officialNameRe.FindStringSubmatch(line)
	if m == nil {
		warn("unrecognised official-names line: %s", line)
		return
	}
	id, name, owner := m[1], m[2], m[3]
	name = sanitizeName(name, warn)

	finalID, suffixed, err := in.InsertItem(id, name, owner)
	if err != nil {
		warn("rejected item %q: %v", id, err)
		return
	}
	if suffixed {
		warn("duplicate item id %q: registered copy as %q", id, finalID)
	}
}

// parseOffer handles one offer line. m is the offerRe submatch:
// m[1]=declared owner, m[2]=item id, m[3]=raw wishlist (may be empty).
func parseOffer(in *core.Instance, m []string, currentUser string, warn func(string, ...interface{})) {
	declared, itemID, rawWants := m[1], m[2], m[3]

	if declared != currentUser {
		warn("offer owner (%s) differs from pragma user (%s): line skipped", declared, currentUser)
		return
	}

	// Register the offered item first: a later wishlist may reference it.
	finalID, suffixed, err := in.InsertItem(itemID, itemID, currentUser)
	if err != nil {
		warn("rejected offered item %q: %v", itemID, err)
		return
	}
	if suffixed {
		warn("item %q already offered by another participant: registered copy as %q", itemID, finalID)
	}

	// Clean, then validate each wish against the table as known so far.
	var wishlist []string
	for _, wish := range cleanWishlist(rawWants) {
		if _, known := in.Items[wish]; !known {
			warn("wishlist item %q of participant %q does not exist: dropped", wish, currentUser)
			continue
		}
		wishlist = append(wishlist, wish)
	}

	if err = in.AddOffer(currentUser, finalID, wishlist); err != nil {
		warn("rejected offer %q of %q: %v", finalID, currentUser, err)
	}
}

// cleanWishlist strips the %-comment, splits on whitespace/commas and drops
// empty fragments. Order (= priority) is preserved.
func cleanWishlist(raw string) []string {
	if i := strings.IndexByte(raw, '%'); i >= 0 {
		raw = raw[:i]
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var out []string
	for _, tok := range wishlistSepRe.Split(raw, -1) {
		if tok != "" {
			out = append(out, tok)
		}
	}

	return out
}

// sanitizeName removes U+FFFD corruption markers from a display name.
func sanitizeName(name string, warn func(string, ...interface{})) string {
	if !strings.ContainsRune(name, replacementRune) {
		return name
	}
	warn("undecodable characters in name %q: removed", name)

	return strings.ReplaceAll(name, string(replacementRune), "")
}
