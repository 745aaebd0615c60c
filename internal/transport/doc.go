// Package transport provides the HTTP request function injected into
// endpoints.
//
// # Overview
//
// Client.Fetch has the endpoint.RequestFunc signature. It issues a GET,
// decodes the JSON body into plain Go values (map[string]any, []any,
// float64, string, bool, nil) and returns them as the ingest payload.
//
// # Request Handling
//
// All requests:
//   - Use the context passed by the endpoint
//   - Set Accept: application/json
//   - Include User-Agent: courier/0.1
//   - Have a client timeout (default 5 seconds)
//   - Run inside an OpenTelemetry client span named "transport.fetch"
//
// A "query" param holding a map is encoded into the query string. Other
// params are only used by the endpoint URL template.
//
// # Error Handling
//
//   - Network errors: wrapped as "execute request: ..."
//   - HTTP errors: *StatusError for status >= 400, carrying the status, the
//     url and the first 512 bytes of the body
//   - Deserialization errors: wrapped as "decode response: ..."
//
// StatusError exposes Name() and Fields(), which endpoint.NormalizeError
// copies into the stored ErrorInfo.
//
// # Design Rationale
//
// No retries and no caching: the endpoint keeps the last response and the
// app poller decides when to ask again.
package transport
