package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/five82/courier/internal/config"
	"github.com/five82/courier/internal/endpoint"
	"github.com/five82/courier/internal/logging"
	"github.com/five82/courier/internal/metrics"
	"github.com/five82/courier/internal/prefs"
	"github.com/five82/courier/internal/state"
	"github.com/five82/courier/internal/tracing"
	"github.com/five82/courier/internal/transport"
	"github.com/five82/courier/internal/ui"
)

// Options configure the courier application. Zero values keep whatever the
// config file says.
type Options struct {
	ConfigPath   string
	PrefsPath    string // empty uses default ~/.config/courier/prefs.toml
	PollInterval time.Duration
	Timeout      time.Duration
	Theme        string
	MetricsAddr  string
	LogLevel     string
	LogFormat    string
}

// Runtime is the wired set of components built from a config.
type Runtime struct {
	Config  config.Config
	Store   *state.Store
	Targets []state.Target
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

// LoadConfig reads the config file and applies the option overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.PollInterval > 0 {
		cfg.PollInterval = opts.PollInterval
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	if opts.Theme != "" {
		cfg.Theme = opts.Theme
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.LogFormat = opts.LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Build wires endpoints, the store and its middleware from cfg. Every
// endpoint request runs under ctx.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if logger == nil {
		logger = logging.Op()
	}
	client := transport.NewClient(cfg.Timeout)
	collector := metrics.New("courier")

	var (
		reducers   []state.Reducer
		middleware = []endpoint.Middleware{logging.Middleware(logger), collector.Middleware()}
		endpoints  []*endpoint.Endpoint
	)
	for _, ep := range cfg.Endpoints {
		e, err := endpoint.New(endpoint.Config{
			Name:     ep.Name,
			Request:  client.Fetch,
			URL:      ep.URL,
			Resolver: endpoint.ParamResolver(ep.Resolve...),
			Context:  ctx,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("build endpoint: %w", err)
		}
		reducers = append(reducers, e)
		middleware = append(middleware, e)
		endpoints = append(endpoints, e)
	}

	var targets []state.Target
	for i, ep := range cfg.Endpoints {
		for _, params := range ep.Requests {
			targets = append(targets, state.Target{Endpoint: endpoints[i], Params: params})
		}
	}

	return &Runtime{
		Config:  cfg,
		Store:   state.New(reducers, middleware...),
		Targets: targets,
		Metrics: collector,
		Logger:  logger,
	}, nil
}

// Run boots the courier TUI until the context is cancelled or the user
// quits. Logs go to the configured log file since the TUI owns the terminal.
func Run(ctx context.Context, opts Options) error {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	// Quitting the UI stops the poller and the metrics listener too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logFile, err := openLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := logging.Init(logFile, cfg.LogFormat, cfg.LogLevel)

	shutdown, err := initTracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown(logger)

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs", "error", err)
	}
	theme := cfg.Theme
	if opts.Theme == "" && userPrefs.Theme != "" {
		theme = userPrefs.Theme
	}

	rt, err := Build(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, rt.Metrics.Handler(), logger)
	}

	StartPoller(ctx, rt.Store, rt.Targets, cfg.PollInterval, logger)
	logger.Info("courier started", "endpoints", len(cfg.Endpoints), "targets", len(rt.Targets))

	return ui.Run(ui.Options{
		Context:   ctx,
		Store:     rt.Store,
		Targets:   rt.Targets,
		PollTick:  cfg.PollInterval,
		ThemeName: theme,
		PrefsPath: opts.PrefsPath,
		LogPath:   cfg.LogFile,
	})
}

// Fetch requests every configured target once and returns the reports.
// Logs go to w.
func Fetch(ctx context.Context, opts Options, w io.Writer) ([]Report, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger := logging.Init(w, cfg.LogFormat, cfg.LogLevel)

	shutdown, err := initTracing(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer shutdown(logger)

	rt, err := Build(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Leave room for the transport timeout to surface as a request error.
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout+time.Second)
	defer cancel()
	return FetchOnce(ctx, rt.Store, rt.Targets)
}

func initTracing(ctx context.Context, cfg config.Config) (func(*slog.Logger), error) {
	provider, err := tracing.Init(ctx, tracing.Config{
		Endpoint:   cfg.TraceEndpoint,
		SampleRate: cfg.TraceSampleRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	return func(logger *slog.Logger) {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("tracing shutdown", "error", err)
		}
	}, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func serveMetrics(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server failed", "error", err)
	}
}
