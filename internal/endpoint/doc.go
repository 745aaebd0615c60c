// Package endpoint builds the fetch lifecycle for one named HTTP resource.
//
// # Overview
//
// New takes a name, a URL template and an injected request function and
// returns an *Endpoint that bundles everything a host store needs:
//
//   - Action creators: Request and Ingest
//   - Middleware: Handle, which performs the fetch
//   - Reducer: Reduce, which folds actions into per-path State
//   - Selectors: Select* projections and memoized PathSelectors
//
// The package contains no transport and no store. The host supplies both:
// the request function (see internal/transport) and a Dispatcher that runs
// Middleware and reducers (see internal/state).
//
// # Lifecycle
//
// Every request resolves to a PathKey. Each path moves through:
//
//	unrequested ──Request──▶ pending ──Ingest──▶ settled
//	                            ▲                   │
//	                            └─────Request───────┘
//
// Pending and settled are tracked with counters rather than discrete states,
// so a path can hold data from an earlier response while a new request is
// pending. A successful ingest replaces Data and clears Error. A failed
// ingest replaces Error and keeps the previous Data.
//
// # Action Types
//
// For an endpoint named "mockApi":
//
//	mockApi/MAKE_REQUEST      request action, payload RequestPayload{URL}
//	mockApi/INGEST_RESPONSE   ingest action, payload data or error
//
// Both carry the same Meta (params, path, url, request id).
//
// # Deduplication
//
// Handle keeps a queue of request actions whose fetch is running. The queue
// is keyed by action pointer: the same *Action delivered twice is fetched
// once, while two separate actions for the same path both fetch and both
// count towards PendingRequests. Callers that want one fetch per path check
// IsPending before dispatching.
//
// # Usage Example
//
//	items, err := endpoint.New(endpoint.Config{
//		Name:     "items",
//		URL:      "http://127.0.0.1:7487/api/items/:id",
//		Request:  client.Fetch,
//		Resolver: endpoint.ParamResolver("id"),
//	})
//	if err != nil {
//		return err
//	}
//	store := state.New([]state.Reducer{items}, items)
//
//	store.Dispatch(items.Request(endpoint.Params{"id": 7}))
//	snap := store.Snapshot()
//	if items.IsPending(snap, endpoint.Params{"id": 7}) {
//		// show a spinner
//	}
//
// # Concurrency
//
// Fetches run on their own goroutines. The in-flight queue and the selector
// memo are guarded by mutexes and owned by the Endpoint. Reduce and the
// selectors are pure. Ingest actions are dispatched in completion order.
// Every started fetch produces exactly one ingest; there is no retry,
// timeout or cancellation at this layer.
package endpoint
