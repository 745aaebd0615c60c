// Package app provides the orchestration layer for courier.
//
// # Overview
//
// This package wires configuration, transport, endpoints, the store, logging,
// metrics, polling and the UI together. It is the composition root: domain
// packages never import each other through it.
//
// # Components
//
//   - app.go: LoadConfig, Build, and the Run (watch) and Fetch (one-shot) modes
//   - poller.go: background loop that keeps every target requested
//   - fetch.go: FetchOnce, which requests every target and waits on the flights
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> LoadConfig()          config file + flag overrides
//	       ├─────> logging.Init()        slog to the log file
//	       ├─────> Build()               transport, endpoints, metrics, store
//	       ├─────> serveMetrics()        optional /metrics listener
//	       ├─────> StartPoller()         background requests
//	       └─────> ui.Run()              TUI (blocks)
//
// The store's middleware chain is, outermost first: logging, metrics, then
// one endpoint middleware per configured endpoint. Each endpoint is also one
// of the store's reducers.
//
// # Polling Behavior
//
// The poller checks every target a few times per interval and dispatches a
// fresh request when:
//
//   - the target has no request pending, and
//   - the interval has passed since its last request, or the backoff has
//     when the last response failed
//
// Backoff doubles the interval for each consecutive failure and is capped at
// 30 seconds. A success resets it. Retrying lives here; endpoints never
// retry on their own.
//
// # One-shot Fetch
//
// FetchOnce dispatches every target at once through the store and waits on
// the returned flights with an errgroup. Request failures come back inside
// the reports; only a cancelled context or a broken dispatch is an error.
//
// # Error Handling
//
// Fatal errors (returned from Run or Fetch):
//   - Config file unreadable or invalid, or no endpoints configured
//   - An endpoint url that cannot be parsed
//   - Log file cannot be opened
//
// Recoverable errors (logged, polling continues):
//   - Request failures, which also land in the endpoint state
//   - Metrics listener failures
//   - Unreadable prefs file
package app
