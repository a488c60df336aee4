package ratelimit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/JonathanRiche/go-quantcast/core"
)

func TestFromHeaders_ParsesThrottleHeaders(t *testing.T) {
	details := FromHeaders(map[string]string{
		"x-ratelimit-reset":                "1700000045",
		"X-RateLimit-Remaining-Requests":   "0",
		"X-RateLimit-Remaining-Complexity": "120",
	})
	if details.ResetTime != "1700000045" {
		t.Fatalf("expected raw reset time, got %q", details.ResetTime)
	}
	if details.ResetAt == nil || !details.ResetAt.Equal(time.Unix(1_700_000_045, 0)) {
		t.Fatalf("expected parsed reset instant, got %v", details.ResetAt)
	}
	if details.RemainingRequests == nil || *details.RemainingRequests != 0 {
		t.Fatalf("expected zero remaining requests, got %v", details.RemainingRequests)
	}
	if details.RemainingComplexity == nil || *details.RemainingComplexity != 120 {
		t.Fatalf("expected remaining complexity 120, got %v", details.RemainingComplexity)
	}
}

func TestFromHeaders_OmitsMissingAndInvalidValues(t *testing.T) {
	details := FromHeaders(map[string]string{
		"X-RateLimit-Reset":              "2026-03-01T12:00:00Z",
		"X-RateLimit-Remaining-Requests": "many",
	})
	if details.ResetAt == nil || details.ResetAt.Format(time.RFC3339) != "2026-03-01T12:00:00Z" {
		t.Fatalf("expected RFC3339 reset to parse, got %v", details.ResetAt)
	}
	if details.RemainingRequests != nil || details.RemainingComplexity != nil {
		t.Fatalf("expected invalid and missing counters to be omitted, got %#v", details)
	}

	empty := FromHeaders(nil)
	if empty.ResetTime != "" || empty.ResetAt != nil {
		t.Fatalf("expected empty details, got %#v", empty)
	}
}

func TestExtract_NormalizesTelemetry(t *testing.T) {
	var resp core.GraphQLResponse
	payload := `{"data":{},"extensions":{"rateLimit":{"queryComplexityRemaining":900,"requestRemaining":49,` +
		`"queryComplexityResetTime":"2026-03-01T12:01:00Z","queryComplexityLimit":1000,"requestLimit":50,` +
		`"requestResetTime":"2026-03-01T12:00:30Z","queryComplexity":100}}}`
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	info, ok := Extract(resp)
	if !ok {
		t.Fatalf("expected telemetry to be present")
	}
	want := core.RateLimitInfo{
		Complexity:          100,
		RemainingComplexity: 900,
		RemainingRequests:   49,
		ComplexityResetTime: "2026-03-01T12:01:00Z",
		RequestResetTime:    "2026-03-01T12:00:30Z",
	}
	if info != want {
		t.Fatalf("unexpected telemetry %#v", info)
	}

	if _, ok := Extract(core.GraphQLResponse{}); ok {
		t.Fatalf("expected absent telemetry to report false")
	}
}

func TestTracker_SnapshotAndThrottleWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewTracker()
	tracker.Now = func() time.Time { return now }

	if snapshot := tracker.Snapshot(); snapshot.Telemetry != nil || snapshot.Throttle != nil {
		t.Fatalf("expected empty snapshot, got %#v", snapshot)
	}

	tracker.ObserveTelemetry(core.RateLimitInfo{RemainingRequests: 10})
	resetAt := now.Add(30 * time.Second)
	tracker.ObserveThrottle(core.RateLimitDetails{ResetTime: "soon", ResetAt: &resetAt})

	snapshot := tracker.Snapshot()
	if snapshot.Telemetry == nil || snapshot.Telemetry.RemainingRequests != 10 {
		t.Fatalf("expected telemetry in snapshot, got %#v", snapshot.Telemetry)
	}
	if snapshot.ThrottledAt == nil || !snapshot.ThrottledAt.Equal(now) {
		t.Fatalf("expected throttle timestamp, got %v", snapshot.ThrottledAt)
	}

	until, ok := tracker.ThrottledUntil()
	if !ok || !until.Equal(resetAt) {
		t.Fatalf("expected throttle window until %v, got %v %v", resetAt, until, ok)
	}
	now = now.Add(time.Minute)
	if _, ok := tracker.ThrottledUntil(); ok {
		t.Fatalf("expected throttle window to have passed")
	}
}
