package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gfxblit/mcp-unity/internal/logging"
	"github.com/gfxblit/mcp-unity/internal/tools"
)

func newTestServer(in string) (*Server, *strings.Builder) {
	buf := logging.NewBuffer(10)
	d := tools.NewDispatcher(logging.NewDiscard(), tools.NewGetLogsTool(tools.NewBufferLogService(buf)))
	var out strings.Builder
	return NewServer("mcp-unity", "test", d, logging.NewDiscard(), strings.NewReader(in), &out), &out
}

// responses decodes each output line as a JSON-RPC response.
func responses(t *testing.T, out *strings.Builder) []map[string]any {
	t.Helper()
	var rs []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var r map[string]any
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			t.Fatalf("invalid response line %q: %v", line, err)
		}
		rs = append(rs, r)
	}
	return rs
}

func TestInitializeHandshake(t *testing.T) {
	s, out := newTestServer(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}` + "\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	rs := responses(t, out)
	if len(rs) != 1 {
		t.Fatalf("got %d responses, want 1", len(rs))
	}
	result, _ := rs[0]["result"].(map[string]any)
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	info, _ := result["serverInfo"].(map[string]any)
	if info["name"] != "mcp-unity" {
		t.Errorf("serverInfo.name = %v", info["name"])
	}
}

func TestToolsListIncludesGetLogs(t *testing.T) {
	s, out := newTestServer(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	result, _ := rs[0]["result"].(map[string]any)
	list, _ := result["tools"].([]any)
	if len(list) == 0 {
		t.Fatal("tools/list returned no tools")
	}
	first, _ := list[0].(map[string]any)
	if first["name"] != "get_logs" {
		t.Errorf("tool name = %v, want get_logs", first["name"])
	}
}

func TestToolsCallGetLogs(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_logs","arguments":{"limit":10}}}` + "\n"
	s, out := newTestServer(in)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	result, _ := rs[0]["result"].(map[string]any)
	if result["isError"] != false {
		t.Errorf("isError = %v, want false", result["isError"])
	}
	content, _ := result["content"].([]any)
	if len(content) != 1 {
		t.Fatalf("content = %v", content)
	}
	block, _ := content[0].(map[string]any)
	text, _ := block["text"].(string)

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	if payload["success"] != true {
		t.Errorf("payload success = %v", payload["success"])
	}
	if msg, _ := payload["message"].(string); !strings.Contains(msg, "log entries") {
		t.Errorf("payload message = %q", msg)
	}
}

func TestToolsCallUnknownTool(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"bogus","arguments":{}}}` + "\n"
	s, out := newTestServer(in)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	result, _ := rs[0]["result"].(map[string]any)
	if result["isError"] != true {
		t.Errorf("isError = %v, want true for unknown tool", result["isError"])
	}
}

func TestNotificationGetsNoResponse(t *testing.T) {
	in := `{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n" +
		`{"jsonrpc":"2.0","id":5,"method":"ping"}` + "\n"
	s, out := newTestServer(in)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	if len(rs) != 1 {
		t.Fatalf("got %d responses, want 1 (ping only)", len(rs))
	}
	if rs[0]["id"] != float64(5) {
		t.Errorf("response id = %v, want 5", rs[0]["id"])
	}
}

func TestMalformedFrameKeepsLoopAlive(t *testing.T) {
	in := "{broken\n" + `{"jsonrpc":"2.0","id":6,"method":"ping"}` + "\n"
	s, out := newTestServer(in)

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	if len(rs) != 2 {
		t.Fatalf("got %d responses, want 2", len(rs))
	}
	if rs[0]["error"] == nil {
		t.Error("malformed frame did not produce error response")
	}
	if rs[1]["id"] != float64(6) {
		t.Error("loop did not continue after malformed frame")
	}
}

func TestUnknownMethod(t *testing.T) {
	s, out := newTestServer(`{"jsonrpc":"2.0","id":7,"method":"resources/list"}` + "\n")

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	rs := responses(t, out)
	errObj, _ := rs[0]["error"].(map[string]any)
	if errObj == nil || errObj["code"] != float64(codeMethodNotFound) {
		t.Errorf("error = %v, want method-not-found", rs[0]["error"])
	}
}
