package state

import (
	"context"
	"testing"
	"time"

	"github.com/five82/courier/internal/endpoint"
)

func TestTarget_Label(t *testing.T) {
	items := newEndpoint(t, "items", nil)

	tests := []struct {
		params endpoint.Params
		want   string
	}{
		{nil, "items"},
		{endpoint.Params{"id": 3}, "items[id=3]"},
		{endpoint.Params{"sort": "asc", "id": 3}, "items[id=3,sort=asc]"},
	}
	for _, tt := range tests {
		if got := (Target{Endpoint: items, Params: tt.params}).Label(); got != tt.want {
			t.Errorf("Label(%v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}

func TestTarget_RequestAndSelect(t *testing.T) {
	items := newEndpoint(t, "items", nil)
	s := New([]Reducer{items}, items)
	target := Target{Endpoint: items, Params: endpoint.Params{"id": 4}}

	if target.Path() != 4 {
		t.Fatalf("Path() = %v, want 4", target.Path())
	}

	f, err := target.Request(s)
	if err != nil {
		t.Fatalf("Request returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := f.Wait(ctx); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}

	ps := target.Select(s.Snapshot())
	if ps.Data != "ok" || ps.SuccessfulRequests != 1 {
		t.Fatalf("PathState = %+v, want ok data after one success", ps)
	}
}

func TestTarget_RequestWithoutMiddleware(t *testing.T) {
	items := newEndpoint(t, "items", nil)
	s := New([]Reducer{items})

	if _, err := (Target{Endpoint: items}).Request(s); err == nil {
		t.Fatal("Request without endpoint middleware returned nil error")
	}
}
