package ratelimit

import (
	"sync"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
)

// Snapshot is the last rate-limit state seen by a Tracker.
type Snapshot struct {
	Telemetry   *core.RateLimitInfo    `json:"telemetry,omitempty"`
	TelemetryAt *time.Time             `json:"telemetryAt,omitempty"`
	Throttle    *core.RateLimitDetails `json:"throttle,omitempty"`
	ThrottledAt *time.Time             `json:"throttledAt,omitempty"`
}

// Tracker remembers the most recent telemetry block and throttle response.
// It is safe for concurrent use.
type Tracker struct {
	Now func() time.Time

	mu    sync.RWMutex
	state Snapshot
}

func NewTracker() *Tracker {
	return &Tracker{}
}

func (t *Tracker) ObserveTelemetry(info core.RateLimitInfo) {
	if t == nil {
		return
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Telemetry = &info
	t.state.TelemetryAt = &now
}

func (t *Tracker) ObserveThrottle(details core.RateLimitDetails) {
	if t == nil {
		return
	}
	now := t.now()
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Throttle = &details
	t.state.ThrottledAt = &now
}

func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := Snapshot{}
	if t.state.Telemetry != nil {
		telemetry := *t.state.Telemetry
		at := *t.state.TelemetryAt
		out.Telemetry, out.TelemetryAt = &telemetry, &at
	}
	if t.state.Throttle != nil {
		throttle := *t.state.Throttle
		at := *t.state.ThrottledAt
		out.Throttle, out.ThrottledAt = &throttle, &at
	}
	return out
}

// ThrottledUntil returns the reset instant of the last throttle response
// while it is still in the future.
func (t *Tracker) ThrottledUntil() (time.Time, bool) {
	snapshot := t.Snapshot()
	if snapshot.Throttle == nil || snapshot.Throttle.ResetAt == nil {
		return time.Time{}, false
	}
	if !snapshot.Throttle.ResetAt.After(t.now()) {
		return time.Time{}, false
	}
	return *snapshot.Throttle.ResetAt, true
}

func (t *Tracker) now() time.Time {
	if t != nil && t.Now != nil {
		return t.Now().UTC()
	}
	return time.Now().UTC()
}
