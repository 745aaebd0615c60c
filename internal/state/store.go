package state

import (
	"maps"
	"sync"
	"time"

	"github.com/five82/courier/internal/endpoint"
)

// Reducer owns one named slice of the store. *endpoint.Endpoint implements it.
type Reducer interface {
	Name() string
	Reduce(prev endpoint.State, a *endpoint.Action) endpoint.State
}

// Snapshot represents the latest endpoint state available to readers.
type Snapshot struct {
	Endpoints   map[string]endpoint.State
	Version     uint64
	LastUpdated time.Time
	LastAction  endpoint.ActionType
}

// Slice returns the State stored for the named endpoint.
func (s Snapshot) Slice(name string) endpoint.State {
	return s.Endpoints[name]
}

var _ endpoint.Slicer = Snapshot{}

// Store runs dispatched actions through the middleware chain and the
// reducers, and publishes the resulting snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	reducers []Reducer
	chain    endpoint.Next

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Snapshot)
}

// New builds a Store. The first middleware sees each action first; the last
// one hands it to the reducers.
func New(reducers []Reducer, middleware ...endpoint.Middleware) *Store {
	s := &Store{
		reducers: reducers,
		snapshot: Snapshot{Endpoints: make(map[string]endpoint.State, len(reducers))},
		subs:     make(map[int]func(Snapshot)),
	}

	chain := endpoint.Next(s.reduce)
	for i := len(middleware) - 1; i >= 0; i-- {
		mw, next := middleware[i], chain
		chain = func(a *endpoint.Action) any {
			return mw.Handle(s, next, a)
		}
	}
	s.chain = chain
	return s
}

// Dispatch sends a through the full pipeline and returns whatever the
// outermost middleware returns. Safe for concurrent use.
func (s *Store) Dispatch(a *endpoint.Action) any {
	return s.chain(a)
}

func (s *Store) reduce(a *endpoint.Action) any {
	if a == nil {
		return nil
	}

	s.mu.Lock()
	var next map[string]endpoint.State
	for _, r := range s.reducers {
		name := r.Name()
		prev := s.snapshot.Endpoints[name]
		updated := r.Reduce(prev, a)
		if endpoint.Same(prev, updated) {
			continue
		}
		if next == nil {
			next = maps.Clone(s.snapshot.Endpoints)
		}
		next[name] = updated
	}
	if next == nil {
		s.mu.Unlock()
		return a
	}
	s.snapshot.Endpoints = next
	s.snapshot.Version++
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.LastAction = a.Type
	snap := s.copySnapshot()
	s.mu.Unlock()

	s.notify(snap)
	return a
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copySnapshot()
}

// Subscribe registers fn to receive every snapshot that changed. fn runs on
// the dispatching goroutine. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(snap Snapshot) {
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// copySnapshot clones the outer map only; endpoint states are immutable.
func (s *Store) copySnapshot() Snapshot {
	snap := s.snapshot
	snap.Endpoints = maps.Clone(s.snapshot.Endpoints)
	return snap
}
