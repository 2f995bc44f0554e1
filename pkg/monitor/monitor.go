package monitor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-pkgz/lgr"

	"sellwatch/pkg/domain"
	"sellwatch/pkg/notify"
)

// Fetcher retrieves the current listing snapshot for a seller, newest first.
type Fetcher interface {
	Fetch(ctx context.Context, seller string) ([]domain.Listing, error)
}

// Notifier delivers one formatted message to the chat target.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Params holds monitor configuration and dependencies.
type Params struct {
	Fetcher  Fetcher
	Notifier Notifier
	Seller   string

	Interval     time.Duration // polling period between cycles
	ErrorBackoff time.Duration // wait after a failed cycle before retrying

	BootstrapLimit int // max entries taken on the initial full scan
	CheckLimit     int // max entries examined per incremental cycle
	AlertCap       int // listings shown per new-listings alert
	InventoryCap   int // listings shown in the startup inventory report
}

// Monitor drives the fetch-diff-notify cycle for one seller on a fixed
// interval. It owns the known-item store; all mutation happens from the
// single Run loop, one cycle at a time.
type Monitor struct {
	fetcher  Fetcher
	notifier Notifier
	seller   string

	interval     time.Duration
	errorBackoff time.Duration

	bootstrapLimit int
	checkLimit     int
	alertCap       int
	inventoryCap   int

	store *KnownStore
	now   func() time.Time

	// counters readable from outside the loop via Stats
	cyclesCompleted atomic.Int64
	cyclesFailed    atomic.Int64
	knownItems      atomic.Int64
	newItems        atomic.Int64
	lastCycle       atomic.Int64 // unix nano, 0 until the first cycle
}

// New creates a monitor for the given seller.
func New(p Params) *Monitor {
	if p.Interval == 0 {
		p.Interval = 15 * time.Minute
	}
	if p.ErrorBackoff == 0 {
		p.ErrorBackoff = 5 * time.Minute
	}
	if p.BootstrapLimit == 0 {
		p.BootstrapLimit = 50
	}
	if p.CheckLimit == 0 {
		p.CheckLimit = 20
	}
	if p.AlertCap == 0 {
		p.AlertCap = 5
	}
	if p.InventoryCap == 0 {
		p.InventoryCap = 10
	}

	return &Monitor{
		fetcher:        p.Fetcher,
		notifier:       p.Notifier,
		seller:         p.Seller,
		interval:       p.Interval,
		errorBackoff:   p.ErrorBackoff,
		bootstrapLimit: p.BootstrapLimit,
		checkLimit:     p.CheckLimit,
		alertCap:       p.AlertCap,
		inventoryCap:   p.InventoryCap,
		store:          NewKnownStore(),
		now:            time.Now,
	}
}

// Run executes the monitoring loop until ctx is canceled. The first cycle
// is a bootstrap scan that seeds the store and announces the current
// inventory without raising new-listing alerts. Failed cycles never stop
// the loop; they extend the wait to the error backoff interval. A cycle
// already in flight finishes before cancellation takes effect.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		err := m.bootstrap(ctx)
		if err == nil {
			break
		}
		lgr.Printf("[WARN] bootstrap scan failed: %v, retrying in %v", err, m.errorBackoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.errorBackoff):
		}
	}

	lgr.Printf("[INFO] monitoring %s every %v", m.seller, m.interval)

	delay := m.interval
	for {
		select {
		case <-ctx.Done():
			lgr.Printf("[INFO] monitor stopped")
			return nil
		case <-time.After(delay):
		}

		if err := m.cycle(ctx); err != nil {
			lgr.Printf("[WARN] cycle failed: %v, next attempt in %v", err, m.errorBackoff)
			delay = m.errorBackoff
			continue
		}
		delay = m.interval
	}
}

// bootstrap performs the initial full-inventory scan and sends the startup
// report. Listings found here are primed into the store and never reported
// as new. A failed delivery is logged but does not repeat the scan, the
// inventory is already primed and a retry would announce it twice.
func (m *Monitor) bootstrap(ctx context.Context) error {
	snapshot, err := m.fetcher.Fetch(ctx, m.seller)
	if err != nil {
		m.cyclesFailed.Add(1)
		return fmt.Errorf("initial inventory scan: %w", err)
	}
	if len(snapshot) > m.bootstrapLimit {
		snapshot = snapshot[:m.bootstrapLimit]
	}

	added := Prime(snapshot, m.store)
	m.knownItems.Store(int64(m.store.Size()))
	m.lastCycle.Store(m.now().UnixNano())
	m.cyclesCompleted.Add(1)
	lgr.Printf("[INFO] bootstrap scan found %d current listings for %s", added, m.seller)

	msg := notify.FormatStartup(m.seller, snapshot, m.interval, m.inventoryCap)
	if err := m.notifier.Send(ctx, msg); err != nil {
		lgr.Printf("[WARN] failed to send startup report: %v", err)
	}
	return nil
}

// cycle runs one fetch-diff-notify pass. New listings are recorded as seen
// before delivery is attempted; a failed delivery is reported for backoff
// but the alert is not retried later, which avoids duplicate alerts at the
// cost of a possible silent drop.
func (m *Monitor) cycle(ctx context.Context) error {
	snapshot, err := m.fetcher.Fetch(ctx, m.seller)
	if err != nil {
		m.cyclesFailed.Add(1)
		return fmt.Errorf("fetch snapshot: %w", err)
	}
	if len(snapshot) > m.checkLimit {
		snapshot = snapshot[:m.checkLimit]
	}

	fresh := DetectNew(snapshot, m.store)
	m.knownItems.Store(int64(m.store.Size()))
	m.lastCycle.Store(m.now().UnixNano())

	if len(fresh) == 0 {
		m.cyclesCompleted.Add(1)
		lgr.Printf("[DEBUG] no new listings for %s, %d known", m.seller, m.store.Size())
		return nil
	}

	m.newItems.Add(int64(len(fresh)))
	lgr.Printf("[INFO] found %d new listings for %s", len(fresh), m.seller)

	msg := notify.FormatNewListings(m.seller, fresh, m.alertCap)
	if err := m.notifier.Send(ctx, msg); err != nil {
		m.cyclesFailed.Add(1)
		return fmt.Errorf("send alert: %w", err)
	}

	m.cyclesCompleted.Add(1)
	return nil
}

// Stats returns aggregate counters for status reporting. Safe to call
// concurrently with the running loop.
func (m *Monitor) Stats() domain.Stats {
	s := domain.Stats{
		CyclesCompleted: m.cyclesCompleted.Load(),
		CyclesFailed:    m.cyclesFailed.Load(),
		KnownItems:      m.knownItems.Load(),
		NewItems:        m.newItems.Load(),
	}
	if ns := m.lastCycle.Load(); ns != 0 {
		s.LastCycle = time.Unix(0, ns).UTC()
	}
	return s
}
