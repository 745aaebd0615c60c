package endpoint

import (
	"context"
	"slices"
	"sync"
)

// Dispatcher sends an action through the full host pipeline.
type Dispatcher interface {
	Dispatch(a *Action) any
}

// Next hands an action to the next stage of the pipeline.
type Next func(a *Action) any

// Middleware observes actions on their way to the reducers.
type Middleware interface {
	Handle(d Dispatcher, next Next, a *Action) any
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(d Dispatcher, next Next, a *Action) any

// Handle calls f(d, next, a).
func (f MiddlewareFunc) Handle(d Dispatcher, next Next, a *Action) any {
	return f(d, next, a)
}

var _ Middleware = (*Endpoint)(nil)

// Flight is returned by Handle for a request action that started a fetch.
// It settles once the matching ingest has been dispatched.
type Flight struct {
	request *Action
	done    chan struct{}
	ingest  *Action
}

// Request returns the request action that started the flight.
func (f *Flight) Request() *Action {
	return f.request
}

// Done is closed after the ingest action has been dispatched.
func (f *Flight) Done() <-chan struct{} {
	return f.done
}

// Ingest returns the dispatched ingest action, or nil while in flight.
func (f *Flight) Ingest() *Action {
	select {
	case <-f.done:
		return f.ingest
	default:
		return nil
	}
}

// Wait blocks until the flight settles or ctx ends. Giving up on the wait
// does not stop the fetch.
func (f *Flight) Wait(ctx context.Context) (*Action, error) {
	select {
	case <-f.done:
		return f.ingest, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// inflight tracks request actions whose fetch has started and not settled.
type inflight struct {
	mu      sync.Mutex
	actions []*Action
}

// add queues a unless that exact action is already queued.
func (q *inflight) add(a *Action) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.Contains(q.actions, a) {
		return false
	}
	q.actions = append(q.actions, a)
	return true
}

func (q *inflight) remove(a *Action) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i := slices.Index(q.actions, a); i >= 0 {
		q.actions = slices.Delete(q.actions, i, i+1)
	}
}

func (q *inflight) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.actions)
}

// InFlight returns the number of request actions currently being fetched.
func (e *Endpoint) InFlight() int {
	return e.queue.len()
}

// Handle is the endpoint middleware. A request action of this endpoint is
// forwarded to next and fetched exactly once, however often the same action
// value is re-delivered. Distinct actions for the same path each fetch. The
// returned *Flight settles after the ingest has been dispatched through d.
func (e *Endpoint) Handle(d Dispatcher, next Next, a *Action) any {
	if a == nil || a.Type != e.requestType {
		return next(a)
	}
	if !e.queue.add(a) {
		return next(a)
	}

	f := &Flight{request: a, done: make(chan struct{})}
	next(a)
	go e.fetch(d, f)
	return f
}

func (e *Endpoint) fetch(d Dispatcher, f *Flight) {
	a := f.request
	res := e.call(a)
	e.queue.remove(a)

	if res.Failed() {
		e.logger.Debug("request failed", "path", a.Meta.Path, "url", a.Meta.URL, "error", res.Err)
	}
	ingest := e.Ingest(res, a.Meta)
	d.Dispatch(ingest)

	f.ingest = ingest
	close(f.done)
}

func (e *Endpoint) call(a *Action) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok {
				res = Fail(err)
				return
			}
			res = Fail(newRequestError(r))
		}
	}()

	url := a.Meta.URL
	if p, ok := a.Payload.(RequestPayload); ok && p.URL != "" {
		url = p.URL
	}
	value, err := e.request(e.ctx, url, a.Meta.Params)
	if err != nil {
		return Fail(err)
	}
	return Ok(value)
}
