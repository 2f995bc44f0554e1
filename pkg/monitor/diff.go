package monitor

import "sellwatch/pkg/domain"

// DetectNew walks a feed snapshot in feed order and returns the listings
// whose ids are not yet in the store, inserting them as it goes. The result
// preserves the snapshot's own ordering (newest first as the feed delivers
// it). Listings already known keep their stored data untouched. Calling
// DetectNew twice with an unchanged snapshot yields nothing on the second
// call.
func DetectNew(snapshot []domain.Listing, store *KnownStore) []domain.Listing {
	var fresh []domain.Listing
	for _, l := range snapshot {
		if store.Contains(l.ID) {
			continue
		}
		store.Put(l.ID, l)
		fresh = append(fresh, l)
	}
	return fresh
}

// Prime seeds the store from a full snapshot without reporting anything as
// new. Used for the bootstrap scan: listings present at startup are, by
// definition, not new. Returns the number of listings added.
func Prime(snapshot []domain.Listing, store *KnownStore) int {
	added := 0
	for _, l := range snapshot {
		if store.Contains(l.ID) {
			continue
		}
		store.Put(l.ID, l)
		added++
	}
	return added
}
