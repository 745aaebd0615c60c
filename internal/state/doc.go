// Package state provides the thread-safe store that hosts endpoint reducers.
//
// # Overview
//
// The Store is the dispatch pipeline the endpoint package expects from its
// host. It owns one endpoint.State per endpoint name, runs every dispatched
// action through a middleware chain and then through every reducer, and
// publishes the result as an immutable Snapshot.
//
// # Architecture
//
//	Dispatch(action)
//	      │
//	      ▼
//	┌──────────────┐   ┌──────────────┐   ┌──────────────┐
//	│ logging mw   │──▶│ metrics mw   │──▶│ endpoint mw  │──▶ reducers
//	└──────────────┘   └──────────────┘   └──────┬───────┘        │
//	                                             │ goroutine      ▼
//	                                             │ fetch     Snapshot{...}
//	                                             ▼                │
//	                                    Dispatch(ingest)     Subscribe()
//
// Middleware receive the Store itself as their Dispatcher, so an ingest
// dispatched from a fetch goroutine re-enters the chain at the top.
//
// # Core Types
//
// Store:
//   - Holds the reducers and the composed middleware chain
//   - Serializes reductions with a sync.RWMutex
//   - Notifies subscribers outside the lock
//
// Snapshot:
//   - Endpoints: one endpoint.State per endpoint name
//   - Version: bumped whenever any slice changed
//   - LastUpdated / LastAction: what changed it and when
//   - Implements endpoint.Slicer, so endpoint selectors read it directly
//
// # Update Semantics
//
// A reducer that returns its previous State unchanged (same map) does not
// count as a change. When no slice changes, the snapshot, its version and
// the subscribers are left alone. Otherwise the outer map is cloned and only
// the changed slices are replaced; endpoint states are never mutated, so
// the clone is shallow.
//
// # Usage Example
//
//	store := state.New([]state.Reducer{status, items}, logMW, status, items)
//	unsubscribe := store.Subscribe(func(s state.Snapshot) {
//		log.Printf("v%d after %s", s.Version, s.LastAction)
//	})
//	defer unsubscribe()
//
//	store.Dispatch(items.Request(endpoint.Params{"id": 7}))
//	snap := store.Snapshot()
//	data := items.Data(snap, endpoint.Params{"id": 7})
//
// # Testing Considerations
//
// A Store with no middleware is a plain reducer host: Dispatch reduces
// synchronously and returns the action.
package state
