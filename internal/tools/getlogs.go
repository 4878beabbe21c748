package tools

import (
	"fmt"
	"strings"

	"github.com/gfxblit/mcp-unity/internal/logging"
)

// Clamping bounds for log retrieval parameters. Requests outside these
// bounds are adjusted server-side, never rejected.
const (
	defaultLogLimit = 50
	maxLogLimit     = 500
)

// LogQuery is a clamped log-retrieval request. An empty Type means no
// filter.
type LogQuery struct {
	Type              string
	Offset            int
	Limit             int
	IncludeStackTrace bool
}

// LogPage is one window of retrieved log entries with its counts: how many
// entries this page returned, how many matched the filter, and how many the
// store retains in total.
type LogPage struct {
	Entries  []logging.Entry
	Returned int
	Filtered int
	Total    int
}

// LogService retrieves log entries for the get_logs tool.
type LogService interface {
	Retrieve(q LogQuery) (*LogPage, error)
}

// BufferLogService serves log queries from an in-memory logging.Buffer.
type BufferLogService struct {
	buf *logging.Buffer
}

// NewBufferLogService creates a LogService over buf.
func NewBufferLogService(buf *logging.Buffer) *BufferLogService {
	return &BufferLogService{buf: buf}
}

// Retrieve returns the requested window of buffered entries, stripping
// stack traces when the query excludes them.
func (s *BufferLogService) Retrieve(q LogQuery) (*LogPage, error) {
	entries, returned, filtered, total := s.buf.Query(q.Type, q.Offset, q.Limit)
	if !q.IncludeStackTrace {
		for i := range entries {
			entries[i].StackTrace = ""
		}
	}
	return &LogPage{
		Entries:  entries,
		Returned: returned,
		Filtered: filtered,
		Total:    total,
	}, nil
}

// GetLogsTool retrieves buffered log entries with filtering and
// pagination. The raw counts from the service never reach the payload;
// they are folded into the summary message.
type GetLogsTool struct {
	service LogService
}

// NewGetLogsTool creates the get_logs tool over service.
func NewGetLogsTool(service LogService) *GetLogsTool {
	return &GetLogsTool{service: service}
}

// Name implements Tool.
func (t *GetLogsTool) Name() string { return "get_logs" }

// Execute implements Tool. Parameter extraction is defensive: every
// parameter is optional, unparsable values fall back to defaults, and
// offset/limit are clamped regardless of caller input.
func (t *GetLogsTool) Execute(params Params) (Result, error) {
	q := LogQuery{
		Type:              stringParam(params, "logType"),
		Offset:            intParam(params, "offset", 0),
		Limit:             intParam(params, "limit", defaultLogLimit),
		IncludeStackTrace: boolParam(params, "includeStackTrace", true),
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Limit = clamp(q.Limit, 1, maxLogLimit)

	page, err := t.service.Retrieve(q)
	if err != nil {
		return nil, err
	}

	return Result{
		"logs":    page.Entries,
		"message": summarize(q, page),
	}, nil
}

// summarize renders the counts and the effective query into one
// human-readable line.
func summarize(q LogQuery, page *LogPage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Retrieved %d of %d log entries", page.Returned, page.Filtered)
	if q.Type != "" {
		fmt.Fprintf(&b, " of type '%s'", q.Type)
	}
	fmt.Fprintf(&b, " (offset: %d, limit: %d, includeStackTrace: %t, total: %d)",
		q.Offset, q.Limit, q.IncludeStackTrace, page.Total)
	return b.String()
}
