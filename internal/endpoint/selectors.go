package endpoint

import "sync"

// The Select functions are pure projections over a single PathState. Each
// accepts nil and returns the value an unrequested path reports.

// SelectData returns the last successful payload, or nil.
func SelectData(s *PathState) any {
	if s == nil {
		return nil
	}
	return s.Data
}

// SelectError returns the error of the last ingest, or nil after a success.
func SelectError(s *PathState) *ErrorInfo {
	if s == nil {
		return nil
	}
	return s.Error
}

// SelectPendingRequests returns the number of unsettled requests.
func SelectPendingRequests(s *PathState) int {
	if s == nil {
		return 0
	}
	return s.PendingRequests
}

// SelectCompletedRequests returns the number of settled requests.
func SelectCompletedRequests(s *PathState) int {
	if s == nil {
		return 0
	}
	return s.CompletedRequests
}

// SelectSuccessfulRequests returns the number of requests that settled without error.
func SelectSuccessfulRequests(s *PathState) int {
	if s == nil {
		return 0
	}
	return s.SuccessfulRequests
}

// SelectIsPending reports whether any request is unsettled.
func SelectIsPending(s *PathState) bool {
	return SelectPendingRequests(s) > 0
}

// SelectHasBeenRequested reports whether the path was ever requested.
func SelectHasBeenRequested(s *PathState) bool {
	return SelectPendingRequests(s) > 0 || SelectCompletedRequests(s) > 0
}

// SelectHasCompletedOnce reports whether at least one request settled.
func SelectHasCompletedOnce(s *PathState) bool {
	return SelectCompletedRequests(s) > 0
}

// PathSelector reads one path of one endpoint out of global state. Endpoint
// hands out a single PathSelector per resolved path, so the pointer is
// stable across calls.
type PathSelector struct {
	endpoint *Endpoint
	path     PathKey
}

// Path returns the resolved path this selector reads.
func (s *PathSelector) Path() PathKey {
	return s.path
}

// Select returns the PathState for the path, or an empty record when the
// path has never been requested.
func (s *PathSelector) Select(global any) *PathState {
	if ps, ok := s.endpoint.root(global)[s.path]; ok && ps != nil {
		return ps
	}
	return &PathState{}
}

type selectorMemo struct {
	mu        sync.Mutex
	selectors map[PathKey]*PathSelector
}

// Selector returns the memoized PathSelector for the path params resolve to.
func (e *Endpoint) Selector(params Params) *PathSelector {
	path := e.Path(params)

	e.memo.mu.Lock()
	defer e.memo.mu.Unlock()
	if s, ok := e.memo.selectors[path]; ok {
		return s
	}
	s := &PathSelector{endpoint: e, path: path}
	e.memo.selectors[path] = s
	return s
}

// Select returns the PathState params resolve to inside global.
func (e *Endpoint) Select(global any, params Params) *PathState {
	return e.Selector(params).Select(global)
}

// Compose builds a selector over global state that resolves the path first
// and then applies project.
func Compose[V any](e *Endpoint, project func(*PathState) V) func(global any, params Params) V {
	return func(global any, params Params) V {
		return project(e.Select(global, params))
	}
}

// Data returns the last successful payload for the path params resolve to.
func (e *Endpoint) Data(global any, params Params) any {
	return Compose(e, SelectData)(global, params)
}

// Err returns the error of the last ingest for the path params resolve to.
func (e *Endpoint) Err(global any, params Params) *ErrorInfo {
	return Compose(e, SelectError)(global, params)
}

// PendingRequests counts unsettled requests for the path params resolve to.
func (e *Endpoint) PendingRequests(global any, params Params) int {
	return Compose(e, SelectPendingRequests)(global, params)
}

// CompletedRequests counts settled requests for the path params resolve to.
func (e *Endpoint) CompletedRequests(global any, params Params) int {
	return Compose(e, SelectCompletedRequests)(global, params)
}

// SuccessfulRequests counts successful requests for the path params resolve to.
func (e *Endpoint) SuccessfulRequests(global any, params Params) int {
	return Compose(e, SelectSuccessfulRequests)(global, params)
}

// IsPending reports whether the path params resolve to has an unsettled request.
func (e *Endpoint) IsPending(global any, params Params) bool {
	return Compose(e, SelectIsPending)(global, params)
}

// HasBeenRequested reports whether the path params resolve to was ever requested.
func (e *Endpoint) HasBeenRequested(global any, params Params) bool {
	return Compose(e, SelectHasBeenRequested)(global, params)
}

// HasCompletedOnce reports whether a request for the path params resolve to has settled.
func (e *Endpoint) HasCompletedOnce(global any, params Params) bool {
	return Compose(e, SelectHasCompletedOnce)(global, params)
}
