package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/five82/courier/internal/endpoint"
)

var (
	opLogger atomic.Pointer[slog.Logger]
	logLevel = new(slog.LevelVar)
)

func init() {
	logLevel.Set(slog.LevelInfo)
	opLogger.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))
}

// Op returns the operational logger.
func Op() *slog.Logger {
	return opLogger.Load()
}

// SetLevelFromString sets the log level. Unknown values are ignored.
func SetLevelFromString(level string) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		logLevel.Set(slog.LevelDebug)
	case "info":
		logLevel.Set(slog.LevelInfo)
	case "warn", "warning":
		logLevel.Set(slog.LevelWarn)
	case "error":
		logLevel.Set(slog.LevelError)
	}
}

// Init reconfigures the operational logger.
// format: "text" (default) or "json"; w defaults to stderr.
func Init(w io.Writer, format, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	SetLevelFromString(level)

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	opLogger.Store(logger)
	return logger
}

// Middleware logs every endpoint action passing through the store. Failed
// ingests are logged at warn level, everything else at debug.
func Middleware(logger *slog.Logger) endpoint.Middleware {
	if logger == nil {
		logger = Op()
	}
	return endpoint.MiddlewareFunc(func(_ endpoint.Dispatcher, next endpoint.Next, a *endpoint.Action) any {
		if a == nil || !(a.Type.IsRequest() || a.Type.IsIngest()) {
			return next(a)
		}

		attrs := []any{
			"endpoint", a.Type.Endpoint(),
			"path", a.Meta.Path,
			"request_id", a.Meta.RequestID,
		}
		switch {
		case a.Type.IsRequest():
			logger.Debug("request", append(attrs, "url", a.Meta.URL)...)
		case a.Error:
			logger.Warn("request failed", append(attrs, "url", a.Meta.URL, "error", a.Payload)...)
		default:
			logger.Debug("response", attrs...)
		}
		return next(a)
	})
}
