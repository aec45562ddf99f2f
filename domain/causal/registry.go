package causal

import (
	"sort"
	"sync"
)

// LinkRegistry holds the latest valid verdict per directed link for the
// lifetime of the process. It is an explicit object owned by whoever
// orchestrates validation, never ambient package state, so lifetime and
// test isolation stay under the caller's control. There is no eviction;
// restart is the only reset.
//
// Writes are serialized by the mutex so parallel batch workers cannot lose
// an update when the same pair is submitted twice concurrently.
type LinkRegistry struct {
	mu    sync.RWMutex
	links map[LinkKey]Verdict
}

// NewLinkRegistry creates an empty registry.
func NewLinkRegistry() *LinkRegistry {
	return &LinkRegistry{
		links: make(map[LinkKey]Verdict),
	}
}

// Record stores a valid verdict under its directed key, overwriting any
// previous verdict for the same pair. Invalid verdicts are not recorded.
// It reports whether the verdict was stored.
func (r *LinkRegistry) Record(v Verdict) bool {
	if !v.Valid {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[v.Key()] = v
	return true
}

// Lookup returns the verdict stored for a directed key.
func (r *LinkRegistry) Lookup(key LinkKey) (Verdict, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.links[key]
	return v, ok
}

// Snapshot returns a copy of the full current mapping.
func (r *LinkRegistry) Snapshot() map[LinkKey]Verdict {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[LinkKey]Verdict, len(r.links))
	for k, v := range r.links {
		out[k] = v
	}
	return out
}

// Keys returns the directed keys in lexical order for deterministic
// reporting.
func (r *LinkRegistry) Keys() []LinkKey {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]LinkKey, 0, len(r.links))
	for k := range r.links {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of registered links.
func (r *LinkRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.links)
}
