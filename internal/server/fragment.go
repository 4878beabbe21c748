package server

import (
	"encoding/json"
	gopath "path"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/paths"
)

// Fragment constants.
const (
	// ServerName is the registration key written under mcpServers.
	ServerName = "mcp-unity"

	// LauncherCommand launches the server bundle.
	LauncherCommand = "node"

	// EntryPoint is the server's build entry point, relative to the server directory.
	EntryPoint = "build/index.js"
)

// IndentStyle selects the textual indentation of a serialized fragment.
// It affects formatting only, never the document's logical content.
type IndentStyle int

const (
	// IndentSpaces indents with two spaces.
	IndentSpaces IndentStyle = iota

	// IndentTabs indents with a single tab.
	IndentTabs
)

// ParseIndentStyle converts a config/flag value ("tabs" or "spaces") to an
// IndentStyle. Unrecognized values default to spaces.
func ParseIndentStyle(s string) IndentStyle {
	if s == "tabs" {
		return IndentTabs
	}
	return IndentSpaces
}

// Indent returns the indentation unit for the style.
func (s IndentStyle) Indent() string {
	if s == IndentTabs {
		return "\t"
	}
	return "  "
}

// Entry is the canonical launch description for the server.
type Entry struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Fragment is the canonical server-registration object merged into client
// configuration documents.
type Fragment struct {
	MCPServers map[string]Entry `json:"mcpServers"`
}

// NewFragment builds the fragment for a server installed at serverPath.
// The path is canonicalized segment-by-segment before composition: the
// serialized output is never post-processed, so argument values that
// legitimately contain doubled slashes elsewhere cannot be corrupted.
func NewFragment(serverPath string) Fragment {
	entry := gopath.Join(paths.Normalize(serverPath), EntryPoint)
	return Fragment{
		MCPServers: map[string]Entry{
			ServerName: {
				Command: LauncherCommand,
				Args:    []string{entry},
			},
		},
	}
}

// Marshal serializes the fragment with the requested indentation style.
func (f Fragment) Marshal(style IndentStyle) (string, error) {
	data, err := json.MarshalIndent(f, "", style.Indent())
	if err != nil {
		return "", errors.Wrap(err, "marshaling config fragment")
	}
	return string(data), nil
}

// BuildFragment produces the serialized registration fragment for a server
// installed at serverPath.
func BuildFragment(serverPath string, style IndentStyle) (string, error) {
	return NewFragment(serverPath).Marshal(style)
}
