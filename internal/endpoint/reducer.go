package endpoint

import (
	"maps"
	"reflect"
)

// State maps each resolved path to its lifecycle record.
type State map[PathKey]*PathState

// PathState is the lifecycle record for one path. Stored values are never
// mutated; the reducer replaces them.
type PathState struct {
	Data               any
	Error              *ErrorInfo
	PendingRequests    int
	CompletedRequests  int
	SuccessfulRequests int
}

// FailedRequests returns the number of completed requests that failed.
func (s *PathState) FailedRequests() int {
	if s == nil {
		return 0
	}
	return s.CompletedRequests - s.SuccessfulRequests
}

// Same reports whether a and b are the same State value, not merely equal.
func Same(a, b State) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// Reduce folds a into prev. Actions of other types return prev itself.
// Otherwise the outer map and the touched PathState are copied; every other
// PathState is shared with prev.
func (e *Endpoint) Reduce(prev State, a *Action) State {
	if a == nil {
		return prev
	}
	switch a.Type {
	case e.requestType:
		return reduceRequest(prev, a.Meta.Path)
	case e.ingestType:
		return reduceIngest(prev, a)
	}
	return prev
}

func reduceRequest(prev State, path PathKey) State {
	next := cloneState(prev)
	if cur, ok := prev[path]; ok {
		ps := *cur
		ps.PendingRequests++
		next[path] = &ps
		return next
	}
	next[path] = &PathState{PendingRequests: 1}
	return next
}

func reduceIngest(prev State, a *Action) State {
	path := a.Meta.Path
	next := cloneState(prev)

	var ps PathState
	if cur, ok := prev[path]; ok {
		ps = *cur
	}
	if ps.PendingRequests > 0 {
		ps.PendingRequests--
	}
	ps.CompletedRequests++

	if a.Error {
		err, _ := a.Payload.(error)
		if err == nil {
			err = Fail(nil).Err
		}
		ps.Error = NormalizeError(err)
	} else {
		ps.Data = a.Payload
		ps.Error = nil
		ps.SuccessfulRequests++
	}
	next[path] = &ps
	return next
}

func cloneState(prev State) State {
	if prev == nil {
		return make(State, 1)
	}
	return maps.Clone(prev)
}
