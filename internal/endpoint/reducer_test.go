package endpoint

import (
	"errors"
	"testing"
)

func TestReduce_UnrelatedActionReturnsSameState(t *testing.T) {
	e := newMockAPI(t, nil)
	prev := e.Reduce(nil, e.Request(Params{"id": 1}))

	next := e.Reduce(prev, &Action{Type: "other/MAKE_REQUEST"})
	if !Same(prev, next) {
		t.Fatal("unrelated action should return the identical state")
	}
	if !Same(prev, e.Reduce(prev, nil)) {
		t.Fatal("nil action should return the identical state")
	}
}

func TestReduce_FirstRequestInitializesPath(t *testing.T) {
	e := newMockAPI(t, nil)

	s := e.Reduce(nil, e.Request(Params{"id": 1776}))
	ps := s[1776]
	if ps == nil {
		t.Fatal("path 1776 missing after request")
	}
	want := PathState{PendingRequests: 1}
	if *ps != want {
		t.Fatalf("path state = %#v, want %#v", *ps, want)
	}
}

func TestReduce_SamePathAccumulatesPending(t *testing.T) {
	e, err := New(Config{
		Name:    "items",
		URL:     "http://host/items/:id",
		Request: noopRequest,
		// Distinct params that resolve to one path.
		Resolver: func(p Params) PathKey { return p["id"].(int) % 10 },
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	s := e.Reduce(nil, e.Request(Params{"id": 3}))
	s = e.Reduce(s, e.Request(Params{"id": 13}))

	if got := s[3].PendingRequests; got != 2 {
		t.Fatalf("pending = %d, want 2", got)
	}
	if len(s) != 1 {
		t.Fatalf("state has %d paths, want 1", len(s))
	}
}

func TestReduce_SuccessRoundTrip(t *testing.T) {
	e := newMockAPI(t, nil)
	params := Params{"id": 1}

	before := e.Reduce(nil, e.Request(params))
	req := e.Request(params)
	mid := e.Reduce(before, req)
	data := map[string]any{"ok": true}
	after := e.Reduce(mid, e.Ingest(Ok(data), req.Meta))

	b, a := before[1], after[1]
	if a.PendingRequests != b.PendingRequests {
		t.Fatalf("pending = %d, want %d", a.PendingRequests, b.PendingRequests)
	}
	if a.CompletedRequests != b.CompletedRequests+1 {
		t.Fatalf("completed = %d, want %d", a.CompletedRequests, b.CompletedRequests+1)
	}
	if a.SuccessfulRequests != b.SuccessfulRequests+1 {
		t.Fatalf("successful = %d, want %d", a.SuccessfulRequests, b.SuccessfulRequests+1)
	}
	if got, ok := a.Data.(map[string]any); !ok || got["ok"] != true {
		t.Fatalf("data = %#v, want %#v", a.Data, data)
	}
	if a.Error != nil {
		t.Fatalf("error = %#v, want nil", a.Error)
	}
}

func TestReduce_ErrorRoundTripKeepsData(t *testing.T) {
	e := newMockAPI(t, nil)
	params := Params{"id": 1}

	req := e.Request(params)
	s := e.Reduce(nil, req)
	s = e.Reduce(s, e.Ingest(Ok("cached"), req.Meta))
	before := s[1]

	req = e.Request(params)
	s = e.Reduce(s, req)
	s = e.Reduce(s, e.Ingest(Fail(errors.New("x")), req.Meta))
	after := s[1]

	if after.Error == nil || after.Error.Message != "x" {
		t.Fatalf("error = %#v, want message x", after.Error)
	}
	if after.Data != "cached" {
		t.Fatalf("data = %#v, want stale data kept", after.Data)
	}
	if after.CompletedRequests != before.CompletedRequests+1 {
		t.Fatalf("completed = %d, want %d", after.CompletedRequests, before.CompletedRequests+1)
	}
	if after.SuccessfulRequests != before.SuccessfulRequests {
		t.Fatalf("successful = %d, want %d", after.SuccessfulRequests, before.SuccessfulRequests)
	}
	if after.FailedRequests() != 1 {
		t.Fatalf("failed = %d, want 1", after.FailedRequests())
	}
	if after.PendingRequests != 0 {
		t.Fatalf("pending = %d, want 0", after.PendingRequests)
	}

	// A later success clears the error.
	req = e.Request(params)
	s = e.Reduce(s, req)
	s = e.Reduce(s, e.Ingest(Ok("fresh"), req.Meta))
	if s[1].Error != nil || s[1].Data != "fresh" {
		t.Fatalf("after recovery = %#v", s[1])
	}
}

func TestReduce_CopyOnWrite(t *testing.T) {
	e := newMockAPI(t, nil)

	s := e.Reduce(nil, e.Request(Params{"id": 1}))
	s = e.Reduce(s, e.Request(Params{"id": 2}))
	one, two := s[1], s[2]

	next := e.Reduce(s, e.Request(Params{"id": 1}))

	if Same(s, next) {
		t.Fatal("reducer mutated the outer map in place")
	}
	if next[2] != two {
		t.Fatal("untouched path should be shared with the previous state")
	}
	if next[1] == one {
		t.Fatal("touched path should be a new record")
	}
	if one.PendingRequests != 1 {
		t.Fatalf("previous record mutated: pending = %d", one.PendingRequests)
	}
}

func TestReduce_IngestWithoutRequestClampsPending(t *testing.T) {
	e := newMockAPI(t, nil)

	s := e.Reduce(nil, e.Ingest(Ok("late"), Meta{Path: 9}))
	ps := s[9]
	if ps.PendingRequests != 0 || ps.CompletedRequests != 1 || ps.Data != "late" {
		t.Fatalf("path state = %#v", *ps)
	}
}

func TestReduce_ErrorIngestWithNonErrorPayload(t *testing.T) {
	e := newMockAPI(t, nil)

	req := e.Request(Params{"id": 1})
	s := e.Reduce(nil, req)
	s = e.Reduce(s, &Action{Type: e.IngestType(), Payload: "oops", Meta: req.Meta, Error: true})
	if s[1].Error == nil {
		t.Fatal("error ingest without an error payload should still record an error")
	}
}
