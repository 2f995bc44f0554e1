package domain

import "time"

// PriceUnavailable is rendered when a feed entry carries no price.
const PriceUnavailable = "N/A"

// Listing represents a single marketplace entry tracked by the monitor.
// ID is derived from the canonical item link and is the dedup key.
type Listing struct {
	ID        string
	Title     string
	Price     string
	Link      string
	Published time.Time // feed-provided publish time, zero if absent
	SeenAt    time.Time // wall-clock of first detection
}

// Timestamp returns the time shown in notifications, preferring the
// feed's own publish time over the detection time.
func (l Listing) Timestamp() time.Time {
	if !l.Published.IsZero() {
		return l.Published
	}
	return l.SeenAt
}

// Stats holds aggregate monitor counters exposed for status reporting.
// Values are point-in-time reads, safe to collect from outside the
// polling loop.
type Stats struct {
	CyclesCompleted int64     `json:"cycles_completed"`
	CyclesFailed    int64     `json:"cycles_failed"`
	KnownItems      int64     `json:"known_items"`
	NewItems        int64     `json:"new_items"`
	LastCycle       time.Time `json:"last_cycle"`
}
