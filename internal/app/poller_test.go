package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/courier/internal/config"
	"github.com/five82/courier/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func newTestRuntime(t *testing.T, handler http.HandlerFunc) *Runtime {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default()
	cfg.Timeout = time.Second
	cfg.Endpoints = []config.Endpoint{
		{Name: "status", URL: srv.URL + "/api/status", Requests: []map[string]any{{}}},
		{Name: "item", URL: srv.URL + "/api/item/:id", Resolve: []string{"id"}, Requests: []map[string]any{{"id": 1}, {"id": 2}}},
	}
	rt, err := Build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return rt
}

func waitSettled(t *testing.T, rt *Runtime) state.Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := rt.Store.Snapshot()
		busy := false
		for _, target := range rt.Targets {
			if target.Select(snap).PendingRequests > 0 {
				busy = true
			}
		}
		if !busy {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("targets did not settle")
	return state.Snapshot{}
}

func TestPoller_RequestsEveryTargetThenWaitsInterval(t *testing.T) {
	var hits atomic.Int32
	rt := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	p := newPoller(rt.Store, rt.Targets, time.Minute, nil)
	clock := time.Unix(1000, 0)
	p.now = func() time.Time { return clock }

	p.tick()
	snap := waitSettled(t, rt)
	if got := hits.Load(); got != 3 {
		t.Fatalf("hits after first tick = %d, want 3", got)
	}
	for _, target := range rt.Targets {
		if ps := target.Select(snap); ps.SuccessfulRequests != 1 {
			t.Fatalf("%s: SuccessfulRequests = %d, want 1", target.Label(), ps.SuccessfulRequests)
		}
	}

	clock = clock.Add(30 * time.Second)
	p.tick()
	if got := hits.Load(); got != 3 {
		t.Fatalf("hits before interval elapsed = %d, want 3", got)
	}

	clock = clock.Add(31 * time.Second)
	p.tick()
	waitSettled(t, rt)
	if got := hits.Load(); got != 6 {
		t.Fatalf("hits after interval = %d, want 6", got)
	}
}

func TestPoller_SkipsPendingTargets(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int32
	rt := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_, _ = w.Write([]byte(`1`))
	})

	p := newPoller(rt.Store, rt.Targets, time.Millisecond, nil)
	p.tick()

	// Wait until all three requests reached the server.
	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	p.now = func() time.Time { return time.Now().Add(time.Hour) }
	p.tick()
	close(release)
	waitSettled(t, rt)

	if got := hits.Load(); got != 3 {
		t.Fatalf("hits = %d, want 3 (pending targets must be skipped)", got)
	}
}

func TestPoller_BacksOffAfterFailure(t *testing.T) {
	var hits atomic.Int32
	rt := newTestRuntime(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	})
	targets := rt.Targets[:1]

	p := newPoller(rt.Store, targets, 2*time.Second, nil)
	clock := time.Unix(1000, 0)
	p.now = func() time.Time { return clock }

	p.tick()
	waitSettled(t, rt)

	// One failure: next attempt after 4s, not 2s.
	clock = clock.Add(3 * time.Second)
	p.tick()
	if got := hits.Load(); got != 1 {
		t.Fatalf("hits inside backoff = %d, want 1", got)
	}
	if p.states[0].failures != 1 {
		t.Fatalf("failures = %d, want 1", p.states[0].failures)
	}

	clock = clock.Add(2 * time.Second)
	p.tick()
	snap := waitSettled(t, rt)
	if got := hits.Load(); got != 2 {
		t.Fatalf("hits after backoff = %d, want 2", got)
	}
	if ps := targets[0].Select(snap); ps.Error == nil || ps.Error.Name != "StatusError" {
		t.Fatalf("Error = %+v, want StatusError", ps.Error)
	}
}
