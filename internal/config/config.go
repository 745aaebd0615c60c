package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config captures everything courier needs to build its endpoints.
type Config struct {
	Timeout      time.Duration
	PollInterval time.Duration
	Theme        string
	LogLevel     string
	LogFormat    string
	LogFile      string
	MetricsAddr  string
	// TraceEndpoint is an OTLP/HTTP collector address; empty disables export.
	TraceEndpoint   string
	TraceSampleRate float64
	Endpoints       []Endpoint
}

// Endpoint describes one configured endpoint and the requests courier keeps
// fresh for it.
type Endpoint struct {
	Name     string
	URL      string
	Resolve  []string
	Requests []map[string]any
}

const (
	defaultConfigPath   = "~/.config/courier/config.toml"
	defaultLogFile      = "~/.local/state/courier/courier.log"
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 2 * time.Second
	defaultTheme        = "Nightfox"
	defaultLogLevel     = "info"
	defaultLogFormat    = "text"
)

// ErrNoEndpoints is returned by Validate when nothing is configured.
var ErrNoEndpoints = errors.New("no endpoints configured")

type rawConfig struct {
	Timeout      string        `toml:"timeout" yaml:"timeout"`
	PollInterval string        `toml:"poll_interval" yaml:"poll_interval"`
	Theme        string        `toml:"theme" yaml:"theme"`
	LogLevel     string        `toml:"log_level" yaml:"log_level"`
	LogFormat    string        `toml:"log_format" yaml:"log_format"`
	LogFile      string        `toml:"log_file" yaml:"log_file"`
	MetricsAddr  string        `toml:"metrics_addr" yaml:"metrics_addr"`
	Trace        rawTrace      `toml:"trace" yaml:"trace"`
	Endpoints    []rawEndpoint `toml:"endpoint" yaml:"endpoints"`
}

type rawTrace struct {
	Endpoint   string  `toml:"endpoint" yaml:"endpoint"`
	SampleRate float64 `toml:"sample_rate" yaml:"sample_rate"`
}

type rawEndpoint struct {
	Name     string           `toml:"name" yaml:"name"`
	URL      string           `toml:"url" yaml:"url"`
	Resolve  []string         `toml:"resolve" yaml:"resolve"`
	Requests []map[string]any `toml:"requests" yaml:"requests"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Timeout:      defaultTimeout,
		PollInterval: defaultPollInterval,
		Theme:        defaultTheme,
		LogLevel:     defaultLogLevel,
		LogFormat:    defaultLogFormat,
		LogFile:      mustExpand(defaultLogFile),
	}
}

// Load locates and parses the config, falling back to defaults when missing.
// Files ending in .yaml or .yml are parsed as YAML, everything else as TOML.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(bytes, &raw)
	default:
		err = toml.Unmarshal(bytes, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return raw.toConfig()
}

func (raw rawConfig) toConfig() (Config, error) {
	cfg := Default()

	var err error
	if cfg.Timeout, err = parseDuration("timeout", raw.Timeout, defaultTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, err
	}

	cfg.Theme = orDefault(raw.Theme, defaultTheme)
	cfg.LogLevel = orDefault(raw.LogLevel, defaultLogLevel)
	cfg.LogFormat = orDefault(raw.LogFormat, defaultLogFormat)
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))
	cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	cfg.TraceEndpoint = strings.TrimSpace(raw.Trace.Endpoint)
	if raw.Trace.SampleRate < 0 || raw.Trace.SampleRate > 1 {
		return Config{}, fmt.Errorf("parse trace.sample_rate: must be between 0 and 1")
	}
	cfg.TraceSampleRate = raw.Trace.SampleRate

	for _, re := range raw.Endpoints {
		ep := Endpoint{
			Name:     strings.TrimSpace(re.Name),
			URL:      strings.TrimSpace(re.URL),
			Resolve:  filterStrings(re.Resolve),
			Requests: re.Requests,
		}
		if len(ep.Requests) == 0 {
			ep.Requests = []map[string]any{{}}
		}
		cfg.Endpoints = append(cfg.Endpoints, ep)
	}

	if err := cfg.Validate(); err != nil && !errors.Is(err, ErrNoEndpoints) {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that endpoints are present, named uniquely and have a url.
func (c Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("endpoint %d: name is empty", i)
		}
		if seen[ep.Name] {
			return fmt.Errorf("endpoint %q: duplicate name", ep.Name)
		}
		seen[ep.Name] = true
		if ep.URL == "" {
			return fmt.Errorf("endpoint %q: url is empty", ep.Name)
		}
	}
	return nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: must be positive", field)
	}
	return d, nil
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func filterStrings(values []string) []string {
	var out []string
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
