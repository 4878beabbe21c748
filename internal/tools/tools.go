package tools

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/gfxblit/mcp-unity/internal/errors"
)

// ErrorCodeExecution tags every failed tool invocation in the outward-facing
// response.
const ErrorCodeExecution = "tool_execution_error"

// ErrUnknownTool indicates a dispatch request named a tool that is not
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// Params is the decoded parameter object of a tool invocation.
type Params map[string]any

// Result is the outward-facing response of a tool invocation. Success
// responses carry the tool's payload plus a message; failures carry an
// error code and message instead.
type Result map[string]any

// Tool executes one named operation against JSON-shaped parameters.
// Implementations return their payload or an error; they never shape the
// success/failure envelope themselves.
type Tool interface {
	Name() string
	Execute(params Params) (Result, error)
}

// Dispatcher routes tool invocations by name and guarantees a structured
// response: no error or panic from a tool ever escapes to the caller.
// Dispatchers hold no mutable state between invocations.
type Dispatcher struct {
	tools  map[string]Tool
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over the given tools.
func NewDispatcher(logger *slog.Logger, ts ...Tool) *Dispatcher {
	d := &Dispatcher{
		tools:  make(map[string]Tool, len(ts)),
		logger: logger,
	}
	for _, t := range ts {
		d.tools[t.Name()] = t
	}
	return d
}

// Names returns the registered tool names, sorted.
func (d *Dispatcher) Names() []string {
	names := make([]string, 0, len(d.tools))
	for name := range d.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch executes the named tool. The returned Result always carries a
// "success" flag; failures additionally carry "errorCode" and
// "errorMessage".
func (d *Dispatcher) Dispatch(name string, params Params) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("tool panicked", "tool", name, "panic", r)
			result = failure(fmt.Sprintf("tool %s panicked: %v", name, r))
		}
	}()

	tool, ok := d.tools[name]
	if !ok {
		d.logger.Error("unknown tool requested", "tool", name)
		return failure(errors.Wrapf(ErrUnknownTool, "%s", name).Error())
	}

	payload, err := tool.Execute(params)
	if err != nil {
		d.logger.Error("tool failed", "tool", name, "error", err)
		return failure(err.Error())
	}

	result = Result{"success": true}
	for k, v := range payload {
		result[k] = v
	}
	return result
}

func failure(message string) Result {
	return Result{
		"success":      false,
		"errorCode":    ErrorCodeExecution,
		"errorMessage": message,
	}
}
