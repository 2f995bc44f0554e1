package monitor

import "sellwatch/pkg/domain"

// KnownStore tracks every listing the monitor has seen, keyed by listing id.
// It is owned by a single Monitor and mutated only from its polling loop, so
// no locking is needed. Entries are never evicted; the set grows for the
// lifetime of the process.
type KnownStore struct {
	items map[string]domain.Listing
}

// NewKnownStore creates an empty store.
func NewKnownStore() *KnownStore {
	return &KnownStore{items: make(map[string]domain.Listing)}
}

// Contains reports whether the listing id has been seen before.
func (s *KnownStore) Contains(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Put records a listing. First-seen data wins: an id already present is
// left untouched.
func (s *KnownStore) Put(id string, l domain.Listing) {
	if _, ok := s.items[id]; ok {
		return
	}
	s.items[id] = l
}

// Get returns the stored listing for an id.
func (s *KnownStore) Get(id string) (domain.Listing, bool) {
	l, ok := s.items[id]
	return l, ok
}

// Size returns the number of tracked listings.
func (s *KnownStore) Size() int {
	return len(s.items)
}
