// Package search maintains the optional secondary search index. The primary
// store stays the single source of truth: when the index is unconfigured or
// unreachable every sync call is a silent no-op that reports success.
package search

import "strings"

// The secondary engine restricts document identifiers to URL- and
// filesystem-safe characters, so record IDs (which contain '/' and may
// contain '.') are rewritten with marker substrings.
const (
	slashMarker = "__"
	dotMarker   = "_dot_"
)

// Sanitize rewrites a record ID into a document ID: '/' first, then '.'.
//
// The transform is not a proven bijection: an owner, repo or path segment
// containing a literal marker substring can collide after restoration. Use
// RoundTrips to reject pathological IDs up front.
func Sanitize(id string) string {
	out := strings.ReplaceAll(id, "/", slashMarker)
	return strings.ReplaceAll(out, ".", dotMarker)
}

// Restore undoes Sanitize in the reverse order: dots first, then slashes.
// The ordering is required for correctness.
func Restore(docID string) string {
	out := strings.ReplaceAll(docID, dotMarker, ".")
	return strings.ReplaceAll(out, slashMarker, "/")
}

// RoundTrips reports whether an ID survives sanitize-then-restore intact.
func RoundTrips(id string) bool {
	return Restore(Sanitize(id)) == id
}
