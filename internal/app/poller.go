package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/courier/internal/state"
)

const (
	defaultPollInterval = 2 * time.Second
	maxBackoff          = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

type pollState struct {
	failures  int
	completed int
	requested time.Time
	next      time.Time
}

type poller struct {
	store    *state.Store
	targets  []state.Target
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	states []pollState
}

func newPoller(store *state.Store, targets []state.Target, interval time.Duration, logger *slog.Logger) *poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &poller{
		store:    store,
		targets:  targets,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		states:   make([]pollState, len(targets)),
	}
}

// StartPoller launches a background goroutine that keeps every target
// requested at the given cadence. A target with a request still pending is
// skipped; one whose last response failed is retried with exponential
// backoff. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, targets []state.Target, interval time.Duration, logger *slog.Logger) {
	p := newPoller(store, targets, interval, logger)
	go p.run(ctx)
}

func (p *poller) run(ctx context.Context) {
	// Check more often than the interval so a response that lands just
	// after a tick does not cost a whole extra interval.
	ticker := time.NewTicker(max(p.interval/4, 50*time.Millisecond))
	defer ticker.Stop()

	for {
		p.tick()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *poller) tick() {
	now := p.now()
	snap := p.store.Snapshot()

	for i, target := range p.targets {
		st := &p.states[i]
		ps := target.Select(snap)

		if ps.CompletedRequests != st.completed {
			st.completed = ps.CompletedRequests
			if ps.Error != nil {
				st.failures++
			} else {
				st.failures = 0
			}
			st.next = st.requested.Add(calculateBackoff(st.failures, p.interval))
		}

		if ps.PendingRequests > 0 || now.Before(st.next) {
			continue
		}

		if _, err := target.Request(p.store); err != nil {
			p.logger.Error("poll request failed", "target", target.Label(), "error", err)
			continue
		}
		st.requested = now
		// Held off until the response lands and sets the real deadline.
		st.next = now.Add(maxBackoff)
	}
}
