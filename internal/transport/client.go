package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/courier/internal/endpoint"
)

const (
	defaultUserAgent = "courier/0.1"
	defaultTimeout   = 5 * time.Second
	errorBodyLimit   = 512
	tracerName       = "github.com/five82/courier/internal/transport"
)

// Ensure Client.Fetch can be injected as an endpoint request function.
var _ endpoint.RequestFunc = (*Client)(nil).Fetch

// Client performs JSON GET requests for endpoints.
type Client struct {
	http      *http.Client
	userAgent string
	tracer    trace.Tracer
}

// NewClient builds a Client. A non-positive timeout uses the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		tracer:    otel.Tracer(tracerName),
	}
}

// StatusError reports a response with a status code of 400 or above.
type StatusError struct {
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.URL, e.Status)
}

// Name is used as the error name in endpoint state.
func (e *StatusError) Name() string { return "StatusError" }

// Fields exposes the response details to endpoint state.
func (e *StatusError) Fields() map[string]any {
	fields := map[string]any{"status": e.Status, "url": e.URL}
	if e.Body != "" {
		fields["body"] = e.Body
	}
	return fields
}

// Fetch GETs rawURL and decodes the JSON body. An empty body yields nil.
// The "query" param, when it is a map, is encoded into the query string.
func (c *Client) Fetch(ctx context.Context, rawURL string, params endpoint.Params) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}

	ctx, span := c.tracer.Start(ctx, "transport.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", rawURL)),
	)
	defer span.End()

	value, err := c.fetch(ctx, rawURL, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetStatus(codes.Ok, "")
	return value, nil
}

func (c *Client) fetch(ctx context.Context, rawURL string, params endpoint.Params) (any, error) {
	reqURL, err := withQuery(rawURL, params)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return nil, &StatusError{URL: reqURL, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

func withQuery(rawURL string, params endpoint.Params) (string, error) {
	query, ok := params["query"].(map[string]any)
	if !ok || len(query) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	values := u.Query()
	for key, value := range query {
		values.Set(key, fmt.Sprint(value))
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}
