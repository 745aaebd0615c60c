package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/five82/courier/internal/endpoint"
)

// Target is one endpoint and one set of request params the host keeps
// fresh. Each target maps onto exactly one path of its endpoint's state.
type Target struct {
	Endpoint *endpoint.Endpoint
	Params   endpoint.Params
}

// Label renders the target as endpoint[k=v,...] with sorted keys.
func (t Target) Label() string {
	if len(t.Params) == 0 {
		return t.Endpoint.Name()
	}
	keys := slices.Sorted(maps.Keys(t.Params))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, t.Params[k]))
	}
	return t.Endpoint.Name() + "[" + strings.Join(parts, ",") + "]"
}

// Path returns the path key the target's params resolve to.
func (t Target) Path() endpoint.PathKey {
	return t.Endpoint.Path(t.Params)
}

// Select reads the target's PathState out of snap.
func (t Target) Select(snap Snapshot) *endpoint.PathState {
	return t.Endpoint.Select(snap, t.Params)
}

// Request dispatches a fresh request action for the target and returns the
// flight started for it.
func (t Target) Request(d endpoint.Dispatcher) (*endpoint.Flight, error) {
	out := d.Dispatch(t.Endpoint.Request(t.Params))
	f, ok := out.(*endpoint.Flight)
	if !ok {
		return nil, fmt.Errorf("%s: dispatch returned %T, want flight", t.Label(), out)
	}
	return f, nil
}
