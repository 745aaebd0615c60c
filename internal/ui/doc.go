// Package ui provides the terminal user interface for courier.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program styled with Lip Gloss. It lists every
// configured target (one endpoint plus one set of params) with the
// lifecycle of its path, and lets the operator request targets by hand.
//
// # Package Structure
//
//   - app.go: Model, Update/View, messages and commands, Run
//   - table.go: header, command bar and the target table
//   - detail.go: detail pane for the selected target
//   - logs.go: log view backed by logtail
//   - status.go: lifecycle chip derivation
//   - theme.go: color themes and Lip Gloss styles
//   - keys.go, help.go: bindings and the help overlay
//
// # Data Flow
//
// Run subscribes to the state.Store before starting the program. Each
// published Snapshot lands in a one-slot channel that only keeps the newest
// value, and a command waiting on that channel turns it into a snapshotMsg.
// A dispatch therefore never waits on the UI.
//
// Rows are read with the endpoint selectors, so the UI never touches the
// reducer state directly.
//
// # Lifecycle Chips
//
//	idle     never requested
//	pending  a request is outstanding
//	ok       last response succeeded
//	stale    last response failed, data from an earlier success is kept
//	error    last response failed and there is no data
//
// # Key Bindings
//
//	j/k, g/G        move selection
//	ctrl+d/ctrl+u   scroll detail pane
//	r / R           request selected / all targets
//	l               toggle log view (space toggles follow)
//	T               cycle theme (saved to prefs)
//	h/?             help
//	e, ctrl+c       quit
//
// Requests started from the UI go through the same store pipeline as the
// poller, so they are logged, counted and reduced the same way.
package ui
