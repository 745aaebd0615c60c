package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timeout != defaultTimeout || cfg.PollInterval != defaultPollInterval {
		t.Fatalf("durations = %v/%v, want defaults", cfg.Timeout, cfg.PollInterval)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, defaultTheme)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
	if !errors.Is(cfg.Validate(), ErrNoEndpoints) {
		t.Fatalf("Validate() = %v, want ErrNoEndpoints", cfg.Validate())
	}
}

func TestLoad_ParsesTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.toml", `
timeout = " 3s "
poll_interval = "10s"
theme = "Slate"
log_level = "debug"
metrics_addr = "127.0.0.1:9464"

[trace]
endpoint = "localhost:4318"
sample_rate = 0.5

[[endpoint]]
name = "status"
url = "http://127.0.0.1:7487/api/status"

[[endpoint]]
name = "  items "
url = "http://127.0.0.1:7487/api/queue/:id"
resolve = ["id", " "]
requests = [{ id = 1 }, { id = 2 }]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Timeout != 3*time.Second || cfg.PollInterval != 10*time.Second {
		t.Fatalf("durations = %v/%v, want 3s/10s", cfg.Timeout, cfg.PollInterval)
	}
	if cfg.Theme != "Slate" || cfg.LogLevel != "debug" || cfg.LogFormat != defaultLogFormat {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("MetricsAddr = %q", cfg.MetricsAddr)
	}
	if cfg.TraceEndpoint != "localhost:4318" || cfg.TraceSampleRate != 0.5 {
		t.Fatalf("trace = %q/%v, want localhost:4318/0.5", cfg.TraceEndpoint, cfg.TraceSampleRate)
	}
	if len(cfg.Endpoints) != 2 {
		t.Fatalf("got %d endpoints, want 2", len(cfg.Endpoints))
	}

	status := cfg.Endpoints[0]
	if len(status.Requests) != 1 || len(status.Requests[0]) != 0 {
		t.Fatalf("status requests = %v, want one empty request", status.Requests)
	}

	items := cfg.Endpoints[1]
	if items.Name != "items" {
		t.Fatalf("Name = %q, want trimmed", items.Name)
	}
	if len(items.Resolve) != 1 || items.Resolve[0] != "id" {
		t.Fatalf("Resolve = %v, want [id]", items.Resolve)
	}
	if len(items.Requests) != 2 || items.Requests[1]["id"] != int64(2) {
		t.Fatalf("Requests = %#v", items.Requests)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func TestLoad_ParsesYAML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeFile(t, "config.yaml", `
poll_interval: 1s
endpoints:
  - name: items
    url: http://host/items/:id
    resolve: [id]
    requests:
      - id: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != time.Second {
		t.Fatalf("PollInterval = %v, want 1s", cfg.PollInterval)
	}
	if len(cfg.Endpoints) != 1 || cfg.Endpoints[0].Requests[0]["id"] != 7 {
		t.Fatalf("Endpoints = %#v", cfg.Endpoints)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad toml", "timeout = ", "parse config"},
		{"bad duration", `timeout = "soon"`, "parse timeout"},
		{"negative duration", `poll_interval = "-1s"`, "must be positive"},
		{"bad sample rate", "[trace]\nsample_rate = 2.0", "sample_rate"},
		{"duplicate endpoint", `
[[endpoint]]
name = "a"
url = "http://host"
[[endpoint]]
name = "a"
url = "http://host"
`, "duplicate name"},
		{"missing url", `
[[endpoint]]
name = "a"
`, "url is empty"},
		{"missing name", `
[[endpoint]]
url = "http://host"
`, "name is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "config.toml", tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/config.toml")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "config.toml") {
		t.Fatalf("expandPath = %q", got)
	}
	if _, err := expandPath("  "); err == nil {
		t.Fatal("expandPath of empty path returned nil error")
	}
}
