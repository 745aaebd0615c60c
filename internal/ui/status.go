package ui

import "github.com/five82/courier/internal/endpoint"

// Status is the lifecycle chip shown for one target.
type Status string

const (
	StatusIdle    Status = "idle"    // never requested
	StatusPending Status = "pending" // a request is outstanding
	StatusOK      Status = "ok"      // last response succeeded
	StatusStale   Status = "stale"   // last response failed, earlier data kept
	StatusError   Status = "error"   // last response failed, no data yet
)

// statusOf derives the chip from a path's lifecycle counters.
func statusOf(ps *endpoint.PathState) Status {
	switch {
	case !endpoint.SelectHasBeenRequested(ps):
		return StatusIdle
	case endpoint.SelectIsPending(ps):
		return StatusPending
	case ps.Error == nil:
		return StatusOK
	case ps.SuccessfulRequests > 0:
		return StatusStale
	default:
		return StatusError
	}
}
