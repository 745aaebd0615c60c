package endpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// RequestFunc performs the fetch for one request action. It is the only
// place an endpoint suspends.
type RequestFunc func(ctx context.Context, url string, params Params) (any, error)

// URLFunc builds the request URL directly from params, bypassing the
// template builder.
type URLFunc func(Params) string

// RootSelector locates an endpoint's State inside a larger application
// state value.
type RootSelector func(global any) State

// Slicer is implemented by host state containers that store one State per
// endpoint name.
type Slicer interface {
	Slice(name string) State
}

// Config describes an endpoint. Exactly one of URL and URLFunc must be set.
type Config struct {
	Name    string
	Request RequestFunc

	URL     string
	URLFunc URLFunc

	Resolver     Resolver     // nil collapses every request onto DefaultPath
	RootSelector RootSelector // nil uses the State or Slicer found in global

	// Context is passed to every Request call. Started calls are never
	// cancelled by the endpoint itself.
	Context context.Context
	Logger  *slog.Logger
}

var (
	// ErrInvalidName is returned when the endpoint name is empty.
	ErrInvalidName = errors.New("endpoint name is required")
	// ErrNilRequest is returned when no request function is configured.
	ErrNilRequest = errors.New("request function is required")
	// ErrInvalidURL is returned when the URL configuration is missing,
	// ambiguous or unparseable.
	ErrInvalidURL = errors.New("invalid url configuration")
)

// Endpoint bundles the action creators, middleware, reducer and selectors
// for one named resource. The in-flight queue and selector memo belong to
// the instance.
type Endpoint struct {
	name     string
	request  RequestFunc
	template *Template
	urlFunc  URLFunc
	resolver Resolver
	root     RootSelector
	ctx      context.Context
	logger   *slog.Logger

	requestType ActionType
	ingestType  ActionType

	queue *inflight
	memo  *selectorMemo
}

// New validates cfg and builds an Endpoint. Configuration problems are
// reported immediately.
func New(cfg Config) (*Endpoint, error) {
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if cfg.Request == nil {
		return nil, fmt.Errorf("endpoint %q: %w", name, ErrNilRequest)
	}

	e := &Endpoint{
		name:        name,
		request:     cfg.Request,
		urlFunc:     cfg.URLFunc,
		resolver:    cfg.Resolver,
		root:        cfg.RootSelector,
		ctx:         cfg.Context,
		logger:      cfg.Logger,
		requestType: ActionType(name + "/" + requestSuffix),
		ingestType:  ActionType(name + "/" + ingestSuffix),
		queue:       &inflight{},
		memo:        &selectorMemo{selectors: make(map[PathKey]*PathSelector)},
	}

	rawURL := strings.TrimSpace(cfg.URL)
	switch {
	case rawURL == "" && cfg.URLFunc == nil:
		return nil, fmt.Errorf("endpoint %q: %w: url or url func required", name, ErrInvalidURL)
	case rawURL != "" && cfg.URLFunc != nil:
		return nil, fmt.Errorf("endpoint %q: %w: url and url func are exclusive", name, ErrInvalidURL)
	case rawURL != "":
		tmpl, err := ParseTemplate(rawURL)
		if err != nil {
			return nil, fmt.Errorf("endpoint %q: %w: %v", name, ErrInvalidURL, err)
		}
		e.template = tmpl
	}

	if e.resolver == nil {
		e.resolver = defaultResolver
	}
	if e.root == nil {
		e.root = defaultRootSelector(name)
	}
	if e.ctx == nil {
		e.ctx = context.Background()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("endpoint", name)

	return e, nil
}

// Name returns the endpoint name.
func (e *Endpoint) Name() string {
	return e.name
}

// RequestType returns the type carried by this endpoint's request actions.
func (e *Endpoint) RequestType() ActionType {
	return e.requestType
}

// IngestType returns the type carried by this endpoint's ingest actions.
func (e *Endpoint) IngestType() ActionType {
	return e.ingestType
}

// URL builds the request URL for params.
func (e *Endpoint) URL(params Params) string {
	if e.urlFunc != nil {
		return e.urlFunc(params)
	}
	return e.template.Build(params)
}

// Path resolves params to the key used for state addressing.
func (e *Endpoint) Path(params Params) PathKey {
	return normalizePath(e.resolver(params))
}

func defaultRootSelector(name string) RootSelector {
	return func(global any) State {
		switch g := global.(type) {
		case State:
			return g
		case Slicer:
			return g.Slice(name)
		}
		return nil
	}
}
