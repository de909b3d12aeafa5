package weather

import (
	"sync"
	"time"
)

// FreshnessGate decides when the stored snapshot is old enough to re-fetch.
//
// A snapshot is due once it is UpdateInterval old. Without a snapshot, a fetch
// is due on first use and again once the previous attempt is TimeoutInterval
// old, so a stalled or failed attempt is retried without hammering the provider.
type FreshnessGate struct {
	mu sync.Mutex

	updateInterval  time.Duration
	timeoutInterval time.Duration
	lastAttempt     *time.Time
}

// NewFreshnessGate creates a FreshnessGate with the given intervals.
func NewFreshnessGate(updateInterval, timeoutInterval time.Duration) *FreshnessGate {
	return &FreshnessGate{
		updateInterval:  updateInterval,
		timeoutInterval: timeoutInterval,
	}
}

// ShouldFetch reports whether a fetch is due at now. snapshotTime is the
// timestamp of the stored snapshot, or nil when there is none. The attempt
// time is recorded whenever ShouldFetch returns true.
func (g *FreshnessGate) ShouldFetch(now time.Time, snapshotTime *time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	var due bool
	switch {
	case snapshotTime != nil:
		due = !now.Before(snapshotTime.Add(g.updateInterval))
	case g.lastAttempt != nil:
		due = !now.Before(g.lastAttempt.Add(g.timeoutInterval))
	default:
		due = true
	}

	if due {
		t := now
		g.lastAttempt = &t
	}
	return due
}

// LastAttempt returns the time of the last attempt the gate allowed.
func (g *FreshnessGate) LastAttempt() (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lastAttempt == nil {
		return time.Time{}, false
	}
	return *g.lastAttempt, true
}
