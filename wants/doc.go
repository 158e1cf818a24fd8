// Package wants parses the human-authored wants text format into a canonical
// core.Instance plus a list of non-fatal diagnostics.
//
// # Recognised line shapes
//
//	!BEGIN-OFFICIAL-NAMES / !END-OFFICIAL-NAMES   section markers
//	<item-id> ==> "<name>" (from <owner>)          inside the section
//	#pragma user "<name>"                          sets the current participant
//	(<owner>) <item-id>[ : <wishlist>]             an offer line
//	#... or blank                                  ignored
//
// A wishlist is whitespace- or comma-separated item ids; a trailing
// %-comment is discarded.
//
// # Error policy
//
// Only a missing/unreadable file is fatal. Malformed lines, owner/pragma
// mismatches, duplicate ids, unknown wishlist references and corrupted name
// characters are recorded as diagnostics and the parse continues.
//
// Duplicate item ids are resolved by copy-suffixing: a re-insertion by the
// same owner is idempotent, a different owner receives the smallest free
// "-COPY<k>" suffix (see core.Instance.InsertItem).
package wants
