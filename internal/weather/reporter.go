package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrLocationUnavailable is returned when no coordinate is known yet.
	// A location refresh has been requested; call Update again later.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrFetchFailed wraps any provider error. The stored snapshot is kept.
	ErrFetchFailed = errors.New("weather fetch failed")

	// ErrUpdateInProgress is returned when another Update is still running.
	ErrUpdateInProgress = errors.New("weather update already in progress")

	// ErrNoSnapshot is returned when no fetch has succeeded yet.
	ErrNoSnapshot = errors.New("no weather snapshot available")

	errEmptySnapshot = errors.New("provider returned no daily forecast")
)

// UpdateStatus describes what a call to Update did.
type UpdateStatus string

const (
	StatusDeferred UpdateStatus = "deferred" // no location yet, refresh requested
	StatusNotDue   UpdateStatus = "not-due"  // freshness gate declined, nothing fetched
	StatusUpdated  UpdateStatus = "updated"  // new snapshot stored
	StatusFailed   UpdateStatus = "failed"   // provider failed, snapshot unchanged
	StatusBusy     UpdateStatus = "busy"     // another update is running
)

// ReporterConfig holds the immutable settings of a Reporter.
type ReporterConfig struct {
	Window          WindowConfig
	Thresholds      Thresholds
	UpdateInterval  time.Duration
	TimeoutInterval time.Duration

	// Zone anchors "noon today". Defaults to time.Local.
	Zone *time.Location
}

// DefaultReporterConfig returns two past days, three future days, an hourly
// update interval and a ten second retry timeout.
func DefaultReporterConfig() ReporterConfig {
	return ReporterConfig{
		Window:          WindowConfig{DaysInPast: 2, DaysInFuture: 3},
		Thresholds:      DefaultThresholds(),
		UpdateInterval:  time.Hour,
		TimeoutInterval: 10 * time.Second,
	}
}

// Option customizes a Reporter.
type Option func(*Reporter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reporter) {
		r.now = now
	}
}

// Reporter keeps the latest snapshot for the device location and derives
// dry and windy conditions from it.
type Reporter struct {
	cfg      ReporterConfig
	provider Provider
	locator  Locator
	gate     *FreshnessGate
	now      func() time.Time

	// inflight serializes Update; a concurrent call fails fast instead of queueing.
	inflight sync.Mutex

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewReporter creates a Reporter fetching from provider for the coordinate
// reported by locator.
func NewReporter(cfg ReporterConfig, provider Provider, locator Locator, opts ...Option) *Reporter {
	if cfg.Zone == nil {
		cfg.Zone = time.Local
	}
	r := &Reporter{
		cfg:      cfg,
		provider: provider,
		locator:  locator,
		gate:     NewFreshnessGate(cfg.UpdateInterval, cfg.TimeoutInterval),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Update fetches a new snapshot when the stored one is due for refresh.
//
// Without a known location it requests a refresh and returns
// ErrLocationUnavailable without waiting. A provider error is returned wrapped
// in ErrFetchFailed and leaves the stored snapshot untouched.
func (r *Reporter) Update(ctx context.Context) (UpdateStatus, error) {
	if !r.inflight.TryLock() {
		return StatusBusy, ErrUpdateInProgress
	}
	defer r.inflight.Unlock()

	coord, ok := r.locator.CurrentLocation()
	if !ok {
		log.Println("reporter: location unknown; requesting refresh")
		r.locator.RefreshLocation()
		return StatusDeferred, ErrLocationUnavailable
	}

	now := r.now()
	if !r.gate.ShouldFetch(now, r.snapshotTime()) {
		return StatusNotDue, nil
	}

	window := ComputeWindow(Noon(now, r.cfg.Zone), r.cfg.Window.DaysInPast, r.cfg.Window.DaysInFuture)
	log.Printf("DEBUG: reporter fetching from %s for %.4f,%.4f (%s to %s)",
		r.provider.Name(), coord.Lat, coord.Lon,
		window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly))

	snap, err := r.provider.Fetch(ctx, Request{
		Location: coord,
		Current:  true,
		Daily:    window,
		Hourly:   window,
	})
	if err == nil && len(snap.Daily) == 0 {
		err = errEmptySnapshot
	}
	if err != nil {
		log.Printf("ERROR: reporter fetch failed; keeping last good snapshot if any: %v", err)
		return StatusFailed, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.ProviderName == "" {
		snap.ProviderName = r.provider.Name()
	}
	if snap.Current.Timestamp.IsZero() {
		snap.Current.Timestamp = now.UTC()
	}
	snap.Location = coord

	r.mu.Lock()
	r.snapshot = &snap
	r.mu.Unlock()

	log.Printf("INFO: reporter stored snapshot %s with %d daily and %d hourly records",
		snap.ID, len(snap.Daily), len(snap.Hourly))
	return StatusUpdated, nil
}

func (r *Reporter) snapshotTime() *time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.snapshot == nil {
		return nil
	}
	ts := r.snapshot.Current.Timestamp
	return &ts
}

func (r *Reporter) current() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Snapshot returns the stored snapshot, or ErrNoSnapshot before the first
// successful fetch.
func (r *Reporter) Snapshot() (Snapshot, error) {
	snap := r.current()
	if snap == nil {
		return Snapshot{}, ErrNoSnapshot
	}
	return *snap, nil
}

// Report evaluates every derived condition against the stored snapshot.
func (r *Reporter) Report() Report {
	return Evaluate(r.current(), r.cfg.Window, r.cfg.Thresholds)
}

// Config returns the settings the Reporter was built with.
func (r *Reporter) Config() ReporterConfig {
	return r.cfg
}

// WasDry reports whether every past day was dry.
func (r *Reporter) WasDry() bool {
	return DryOver(r.current(), r.cfg.Window.Past(), r.cfg.Thresholds).Bool()
}

// IsDry reports whether today is dry.
func (r *Reporter) IsDry() bool {
	return DryOver(r.current(), r.cfg.Window.Today(), r.cfg.Thresholds).Bool()
}

// WillBeDry reports whether every future day will be dry.
func (r *Reporter) WillBeDry() bool {
	return DryOver(r.current(), r.cfg.Window.Future(), r.cfg.Thresholds).Bool()
}

// IsWindy reports whether the current wind speed is at least the strong wind limit.
func (r *Reporter) IsWindy() bool {
	return WindyNow(r.current(), r.cfg.Thresholds).Bool()
}
