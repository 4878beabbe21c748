// Package logging provides slog-based logging for mcp-unity.
//
// It includes a TTY-optimized colorized text handler, a JSON handler option,
// a MultiHandler for fan-out to multiple sinks, and a bounded in-memory
// Buffer that retains recent records for the get_logs dispatch tool.
package logging
