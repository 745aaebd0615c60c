package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/courier/internal/endpoint"
)

// Default histogram buckets for request duration (in seconds)
var defaultBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// Collector wraps the prometheus collectors for endpoint traffic.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	ingestsTotal    *prometheus.CounterVec
	inflight        *prometheus.GaugeVec
	requestDuration *prometheus.HistogramVec

	mu      sync.Mutex
	started map[string]time.Time // request id -> dispatch time
	now     func() time.Time
}

// New registers the collectors on a private registry.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = "courier"
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of endpoint request actions",
			},
			[]string{"endpoint"},
		),
		ingestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingests_total",
				Help:      "Total number of endpoint responses by result",
			},
			[]string{"endpoint", "result"},
		),
		inflight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "inflight_requests",
				Help:      "Requests dispatched and not yet answered",
			},
			[]string{"endpoint"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Time from request action to ingest action",
				Buckets:   defaultBuckets,
			},
			[]string{"endpoint"},
		),

		started: make(map[string]time.Time),
		now:     time.Now,
	}

	c.registry.MustRegister(
		prometheus.NewGoCollector(),
		c.requestsTotal,
		c.ingestsTotal,
		c.inflight,
		c.requestDuration,
	)
	return c
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records every endpoint action passing through the store.
func (c *Collector) Middleware() endpoint.Middleware {
	return endpoint.MiddlewareFunc(func(_ endpoint.Dispatcher, next endpoint.Next, a *endpoint.Action) any {
		if a != nil {
			c.observe(a)
		}
		return next(a)
	})
}

func (c *Collector) observe(a *endpoint.Action) {
	name := a.Type.Endpoint()
	switch {
	case a.Type.IsRequest():
		c.requestsTotal.WithLabelValues(name).Inc()
		c.inflight.WithLabelValues(name).Inc()
		if id := a.Meta.RequestID; id != "" {
			c.mu.Lock()
			c.started[id] = c.now()
			c.mu.Unlock()
		}

	case a.Type.IsIngest():
		result := "success"
		if a.Error {
			result = "error"
		}
		c.ingestsTotal.WithLabelValues(name, result).Inc()
		c.inflight.WithLabelValues(name).Dec()

		c.mu.Lock()
		start, ok := c.started[a.Meta.RequestID]
		delete(c.started, a.Meta.RequestID)
		c.mu.Unlock()
		if ok {
			c.requestDuration.WithLabelValues(name).Observe(c.now().Sub(start).Seconds())
		}
	}
}
