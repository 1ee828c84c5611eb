package controller

import "github.com/roomguard/roomguard/internal/domain/access"

// Registry compares scanned identifiers against the allow-list and
// tracks which credentials have been presented since the last reset.
// The scan flags survive alert transitions and clear only when the VIP
// window ends.
type Registry struct {
	allow   [len(AllowList)]access.UID
	scanned [len(AllowList)]bool
}

// NewRegistry returns a registry over the given allow-list with all scan
// flags cleared.
func NewRegistry(allow [len(AllowList)]access.UID) *Registry {
	return &Registry{allow: allow}
}

// Match compares uid byte-wise against every allow-listed credential and
// marks each match as scanned. It returns the matched indexes; an empty
// result means the card is unknown. The allow-list entries are distinct
// by construction, so in practice at most one index is returned.
func (r *Registry) Match(uid access.UID) []int {
	var matched []int

	for i, allowed := range r.allow {
		if uid == allowed {
			r.scanned[i] = true
			matched = append(matched, i)
		}
	}

	return matched
}

// AllScanned reports whether every allow-listed credential has been
// presented since the last reset.
func (r *Registry) AllScanned() bool {
	for _, seen := range r.scanned {
		if !seen {
			return false
		}
	}

	return true
}

// Scanned reports whether the credential at index i has been presented
// since the last reset.
func (r *Registry) Scanned(i int) bool {
	return r.scanned[i]
}

// Reset clears all scan flags. Called whenever VIP mode ends.
func (r *Registry) Reset() {
	r.scanned = [len(AllowList)]bool{}
}
