package logging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"
)

// DefaultBufferCapacity bounds the in-memory log buffer.
const DefaultBufferCapacity = 1000

// Entry is one captured log record, shaped for the get_logs tool.
type Entry struct {
	Time       time.Time `json:"timestamp"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	StackTrace string    `json:"stackTrace,omitempty"`
}

// Buffer is a bounded, concurrency-safe ring of recent log records.
// It implements slog.Handler so it can be fanned into via MultiHandler,
// and serves as the data source for the get_logs dispatch tool.
type Buffer struct {
	mu       sync.RWMutex
	capacity int
	entries  []Entry
	start    int
	count    int
}

// NewBuffer creates a Buffer retaining up to capacity records.
// A capacity of 0 or less uses DefaultBufferCapacity.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &Buffer{
		capacity: capacity,
		entries:  make([]Entry, capacity),
	}
}

// Enabled reports true for all levels; filtering happens at query time.
func (b *Buffer) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

// Handle appends the record, evicting the oldest entry when full.
// Error-level records capture a short stack trace.
func (b *Buffer) Handle(ctx context.Context, r slog.Record) error {
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		msg = fmt.Sprintf("%s %s=%v", msg, a.Key, a.Value.Any())
		return true
	})

	entry := Entry{
		Time:    r.Time,
		Type:    typeForLevel(r.Level),
		Message: msg,
	}
	if r.Level >= slog.LevelError {
		entry.StackTrace = captureStack()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.start + b.count) % b.capacity
	b.entries[idx] = entry
	if b.count < b.capacity {
		b.count++
	} else {
		b.start = (b.start + 1) % b.capacity
	}
	return nil
}

// WithAttrs returns the buffer itself; attributes are folded into messages at
// Handle time, which is sufficient for log retrieval.
func (b *Buffer) WithAttrs(attrs []slog.Attr) slog.Handler { return b }

// WithGroup returns the buffer itself.
func (b *Buffer) WithGroup(name string) slog.Handler { return b }

// Snapshot returns all retained entries in arrival order.
func (b *Buffer) Snapshot() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.entries[(b.start+i)%b.capacity]
	}
	return out
}

// Query returns a window of entries matching logType (empty means all),
// along with the returned, filtered, and total counts.
// offset and limit must already be clamped by the caller.
func (b *Buffer) Query(logType string, offset, limit int) (entries []Entry, returned, filtered, total int) {
	all := b.Snapshot()
	total = len(all)

	matched := all
	if logType != "" {
		matched = make([]Entry, 0, len(all))
		for _, e := range all {
			if e.Type == logType {
				matched = append(matched, e)
			}
		}
	}
	filtered = len(matched)

	if offset >= len(matched) {
		return []Entry{}, 0, filtered, total
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	window := matched[offset:end]
	return window, len(window), filtered, total
}

// typeForLevel maps a slog level to the log type strings exposed by get_logs.
func typeForLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "error"
	case level >= slog.LevelWarn:
		return "warning"
	case level >= slog.LevelInfo:
		return "info"
	default:
		return "debug"
	}
}

// captureStack returns a trimmed stack trace for error records.
func captureStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
