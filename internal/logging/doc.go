// Package logging holds the operational slog logger and the store middleware
// that logs endpoint traffic.
//
// Op returns the process-wide logger; Init swaps it for a text or JSON
// handler at the configured level. Middleware logs request actions and
// successful ingests at debug level and failed ingests at warn level, each
// with the endpoint name, path and request id.
//
// The TUI owns the terminal while it runs, so the app points Init at a log
// file rather than stderr in watch mode.
package logging
