package registry

import "sync/atomic"

// Store holds the registry generation used by new requests. Replace swaps
// the whole generation at once, so a reader sees either the old or the new
// registry and never a partial one.
type Store struct {
	current atomic.Pointer[Registry]
}

// NewStore returns a Store holding an empty registry.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(Empty())
	return s
}

// Current returns the active registry. Callers should take it once per
// request and use that value throughout.
func (s *Store) Current() *Registry {
	return s.current.Load()
}

// Replace installs r and returns the generation it replaced.
func (s *Store) Replace(r *Registry) *Registry {
	return s.current.Swap(r)
}
