package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/five82/courier/internal/endpoint"
)

func TestCollector_CountsRequestsAndIngests(t *testing.T) {
	c := New("test")
	clock := time.Unix(1000, 0)
	c.now = func() time.Time { return clock }

	mw := c.Middleware()
	next := func(a *endpoint.Action) any { return a }

	meta := endpoint.Meta{Path: 1, RequestID: "a"}
	mw.Handle(nil, next, &endpoint.Action{Type: "items/MAKE_REQUEST", Meta: meta})
	mw.Handle(nil, next, &endpoint.Action{Type: "items/MAKE_REQUEST", Meta: endpoint.Meta{Path: 1, RequestID: "b"}})

	if got := testutil.ToFloat64(c.requestsTotal.WithLabelValues("items")); got != 2 {
		t.Fatalf("requests_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.inflight.WithLabelValues("items")); got != 2 {
		t.Fatalf("inflight = %v, want 2", got)
	}

	clock = clock.Add(250 * time.Millisecond)
	mw.Handle(nil, next, &endpoint.Action{Type: "items/INGEST_RESPONSE", Meta: meta})
	mw.Handle(nil, next, &endpoint.Action{
		Type:    "items/INGEST_RESPONSE",
		Meta:    endpoint.Meta{Path: 1, RequestID: "b"},
		Payload: errors.New("down"),
		Error:   true,
	})

	if got := testutil.ToFloat64(c.ingestsTotal.WithLabelValues("items", "success")); got != 1 {
		t.Fatalf("ingests_total{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.ingestsTotal.WithLabelValues("items", "error")); got != 1 {
		t.Fatalf("ingests_total{error} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.inflight.WithLabelValues("items")); got != 0 {
		t.Fatalf("inflight = %v, want 0", got)
	}
	if got := testutil.CollectAndCount(c.requestDuration); got != 1 {
		t.Fatalf("request_duration series = %d, want 1", got)
	}
	if len(c.started) != 0 {
		t.Fatalf("started map not drained: %v", c.started)
	}
}

func TestCollector_IgnoresOtherActions(t *testing.T) {
	c := New("")
	mw := c.Middleware()
	mw.Handle(nil, func(a *endpoint.Action) any { return a }, &endpoint.Action{Type: "ui/REFRESH"})

	if got := testutil.CollectAndCount(c.requestsTotal); got != 0 {
		t.Fatalf("requests_total series = %d, want 0", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := New("courier")
	c.Middleware().Handle(nil, func(a *endpoint.Action) any { return a },
		&endpoint.Action{Type: "status/MAKE_REQUEST", Meta: endpoint.Meta{RequestID: "x"}})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `courier_requests_total{endpoint="status"} 1`) {
		t.Fatalf("metrics output missing requests counter:\n%s", body)
	}
}
