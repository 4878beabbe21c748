package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/tools"
)

// protocolVersion is the MCP protocol revision this server speaks.
const protocolVersion = "2024-11-05"

// Server exposes the tool dispatcher over newline-delimited JSON-RPC on a
// byte stream, normally stdin/stdout.
type Server struct {
	name       string
	version    string
	dispatcher *tools.Dispatcher
	logger     *slog.Logger
	in         io.Reader
	out        io.Writer
}

// NewServer creates a stdio MCP server around dispatcher. Diagnostics go to
// logger, never to out, which carries protocol frames only.
func NewServer(name, version string, dispatcher *tools.Dispatcher, logger *slog.Logger, in io.Reader, out io.Writer) *Server {
	return &Server{
		name:       name,
		version:    version,
		dispatcher: dispatcher,
		logger:     logger,
		in:         in,
		out:        out,
	}
}

// request is an incoming JSON-RPC frame. A nil ID marks a notification,
// which gets no response.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string    `json:"jsonrpc"`
	ID      any       `json:"id"`
	Result  any       `json:"result,omitempty"`
	Error   *rpcError `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// JSON-RPC error codes used by this server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Run reads frames until the input stream closes or ctx is cancelled.
// Malformed frames produce an error response and the loop continues; a
// broken output stream ends it.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		resp := s.handle(line)
		if resp == nil {
			continue
		}
		if err := s.send(resp); err != nil {
			return err
		}
	}
	return errors.Wrap(scanner.Err(), "reading requests")
}

func (s *Server) handle(data []byte) *response {
	var req request
	if err := json.Unmarshal(data, &req); err != nil {
		s.logger.Error("malformed request frame", "error", err)
		return &response{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: codeParseError, Message: "invalid JSON-RPC request"},
		}
	}

	if req.ID == nil {
		// Notification; nothing to answer.
		s.logger.Debug("notification received", "method", req.Method)
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "ping":
		return &response{JSONRPC: "2.0", ID: req.ID, Result: map[string]any{}}
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	default:
		s.logger.Debug("unknown method", "method", req.Method)
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeMethodNotFound, Message: "method not found: " + req.Method},
		}
	}
}

func (s *Server) handleInitialize(req *request) *response {
	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"serverInfo": map[string]any{
				"name":    s.name,
				"version": s.version,
			},
		},
	}
}

func (s *Server) handleToolsList(req *request) *response {
	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  map[string]any{"tools": toolDefinitions()},
	}
}

func (s *Server) handleToolsCall(req *request) *response {
	var params struct {
		Name      string       `json:"name"`
		Arguments tools.Params `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidParams, Message: "invalid params: " + err.Error()},
		}
	}

	result := s.dispatcher.Dispatch(params.Name, params.Arguments)

	text, err := json.Marshal(result)
	if err != nil {
		return &response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &rpcError{Code: codeInvalidParams, Message: "encoding result: " + err.Error()},
		}
	}

	isError := result["success"] != true
	return &response{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": string(text)},
			},
			"isError": isError,
		},
	}
}

func (s *Server) send(resp *response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return errors.Wrap(err, "encoding response")
	}
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		return errors.Wrap(err, "writing response")
	}
	return nil
}

// toolDefinitions describes the exposed tools in MCP schema form.
func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "get_logs",
			"description": "Retrieve recent log entries with optional type filtering and pagination.",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"logType": map[string]any{
						"type":        "string",
						"description": "Filter by log type: error, warning, info, debug. Omit for all types.",
					},
					"offset": map[string]any{
						"type":        "integer",
						"description": "Number of matching entries to skip (default 0).",
					},
					"limit": map[string]any{
						"type":        "integer",
						"description": "Maximum entries to return, 1-500 (default 50).",
					},
					"includeStackTrace": map[string]any{
						"type":        "boolean",
						"description": "Include stack traces on error entries (default true).",
					},
				},
			},
		},
	}
}
