// Package logtail reads the tail of courier's log file and parses its lines.
//
// # Overview
//
// In watch mode courier logs to a file because the TUI owns the terminal.
// The UI's log view uses this package to show the most recent lines with
// their level and attributes picked apart.
//
// # Reading Log Files
//
// Read uses a ring buffer of size maxLines so only the tail is kept in
// memory no matter how large the file grows:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file is not an error; it simply has no lines yet.
//
// # Parsing
//
// Parse understands both formats the logging package can write:
//
//	time=... level=WARN msg="request failed" endpoint=items path=3
//	{"time":"...","level":"WARN","msg":"request failed","endpoint":"items"}
//
// time, level and msg become Entry fields; everything else is kept in
// Attrs in the order written (sorted by key for JSON). Lines in neither
// format, such as a panic trace, come back with only Message set.
package logtail
