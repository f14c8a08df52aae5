package main

import (
	"sync"
	"time"
)

// ==========================================
// TIME SOURCE
// ==========================================
// Tracks a reference wall-clock time from the last successful network
// sync plus the local monotonic clock reading taken at that moment, so
// "now" is computed as reference + elapsed-since-sync. Without a sync the
// host clock is used directly; a stale reference is never invalidated on
// sync failure, it just keeps drifting until the next successful sync.

type TimeSource struct {
	mu       sync.Mutex
	synced   bool
	refTime  time.Time // network time at last sync, carries its zone
	refLocal time.Time // local reading at last sync (monotonic)
	loc      *time.Location
}

// NewTimeSource creates a time source. loc may be nil, in which case the
// zone reported by the time API (or the host zone before first sync) is
// used.
func NewTimeSource(loc *time.Location) *TimeSource {
	return &TimeSource{loc: loc}
}

// SetReference records a successful network sync.
func (ts *TimeSource) SetReference(networkTime time.Time) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.refTime = networkTime
	ts.refLocal = time.Now()
	ts.synced = true
}

// Synced reports whether at least one network sync has succeeded.
func (ts *TimeSource) Synced() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.synced
}

// Now returns the current wall-clock time in the configured location.
func (ts *TimeSource) Now() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	var now time.Time
	if ts.synced {
		now = ts.refTime.Add(time.Since(ts.refLocal))
	} else {
		now = time.Now()
	}
	if ts.loc != nil {
		now = now.In(ts.loc)
	}
	return now
}
