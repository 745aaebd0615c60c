// Package metrics exports Prometheus metrics for endpoint traffic.
//
// Collector.Middleware sits in the store's middleware chain and counts
// request and ingest actions per endpoint:
//
//	courier_requests_total{endpoint}
//	courier_ingests_total{endpoint,result="success"|"error"}
//	courier_inflight_requests{endpoint}
//	courier_request_duration_seconds{endpoint}
//
// Durations pair a request with its ingest through Meta.RequestID. The
// collectors live on a private registry served by Handler.
package metrics
