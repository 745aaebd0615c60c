// Package config loads courier's configuration file.
//
// # Overview
//
// The config names the endpoints courier watches and the few knobs that
// control polling, logging and the metrics listener. Everything except the
// endpoint list has a default, so a file with only endpoints is valid.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/courier/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Files ending in .yaml or .yml are decoded with gopkg.in/yaml.v3. Any other
// extension is decoded as TOML with go-toml.
//
// # Default Values
//
//   - Config file: ~/.config/courier/config.toml
//   - Log file: ~/.local/state/courier/courier.log
//   - timeout: 5s
//   - poll_interval: 2s
//   - theme: Nightfox
//   - log_level: info, log_format: text
//
// # TOML Format
//
//	timeout = "5s"
//	poll_interval = "2s"
//	metrics_addr = "127.0.0.1:9464"
//
//	[[endpoint]]
//	name = "status"
//	url = "http://127.0.0.1:7487/api/status"
//
//	[[endpoint]]
//	name = "item"
//	url = "http://127.0.0.1:7487/api/queue/:id"
//	resolve = ["id"]
//	requests = [{ id = 1 }, { id = 2 }]
//
// The YAML form uses the same keys with a top-level "endpoints" list.
//
// An endpoint without requests is polled once with empty params. resolve
// lists the param names that key the endpoint's per-path state.
//
// # Error Handling
//
// Load returns errors for unreadable or malformed files, durations that do
// not parse or are not positive, and endpoints with an empty or duplicate
// name or an empty url. A missing endpoint list is not a load error; callers
// that need endpoints check Validate for ErrNoEndpoints.
package config
