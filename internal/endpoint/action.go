package endpoint

import (
	"errors"
	"maps"
	"strings"

	"github.com/google/uuid"
)

const (
	requestSuffix = "MAKE_REQUEST"
	ingestSuffix  = "INGEST_RESPONSE"
)

// ActionType tags an action. The string form doubles as a dispatch key.
type ActionType string

func (t ActionType) String() string {
	return string(t)
}

// Endpoint returns the endpoint name portion of the type.
func (t ActionType) Endpoint() string {
	name, _, _ := strings.Cut(string(t), "/")
	return name
}

// IsRequest reports whether t is a request type of some endpoint.
func (t ActionType) IsRequest() bool {
	return strings.HasSuffix(string(t), "/"+requestSuffix)
}

// IsIngest reports whether t is an ingest type of some endpoint.
func (t ActionType) IsIngest() bool {
	return strings.HasSuffix(string(t), "/"+ingestSuffix)
}

// Meta travels with a request action and is copied unchanged onto the
// ingest action that answers it.
type Meta struct {
	Params    Params
	Path      PathKey
	URL       string
	RequestID string
}

// RequestPayload is the payload of a request action.
type RequestPayload struct {
	URL string
}

// Action is dispatched through the host store. Actions are passed by
// pointer; the middleware tells request actions apart by identity.
type Action struct {
	Type    ActionType
	Payload any
	Meta    Meta
	Error   bool
}

// Result is the outcome of one request call.
type Result struct {
	Value any
	Err   error
}

// Ok wraps a successful response.
func Ok(value any) Result {
	return Result{Value: value}
}

// Fail wraps a failed response. A nil err still produces a failure.
func Fail(err error) Result {
	if err == nil {
		err = errors.New("request failed")
	}
	return Result{Err: err}
}

// Failed reports whether r holds an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Request builds a request action for params.
func (e *Endpoint) Request(params Params) *Action {
	url := e.URL(params)
	return &Action{
		Type:    e.requestType,
		Payload: RequestPayload{URL: url},
		Meta: Meta{
			Params:    maps.Clone(params),
			Path:      e.Path(params),
			URL:       url,
			RequestID: uuid.NewString(),
		},
	}
}

// Ingest builds the ingest action for res. meta must be the Meta of the
// request action being answered.
func (e *Endpoint) Ingest(res Result, meta Meta) *Action {
	if res.Failed() {
		return &Action{Type: e.ingestType, Payload: res.Err, Meta: meta, Error: true}
	}
	return &Action{Type: e.ingestType, Payload: res.Value, Meta: meta}
}
