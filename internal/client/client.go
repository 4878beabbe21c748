package client

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/paths"
)

// Client identifiers for the supported AI-tool clients.
const (
	Windsurf      = "windsurf"
	ClaudeDesktop = "claude-desktop"
	Cursor        = "cursor"
	ClaudeCode    = "claude-code"
	VSCode        = "vscode"
)

// MergeStrategy selects how the server fragment is merged into a client's
// configuration document. The strategy is part of the descriptor data, never
// inferred from the client's display name.
type MergeStrategy int

const (
	// MergeFlatRoot merges under the document's top-level mcpServers object.
	MergeFlatRoot MergeStrategy = iota

	// MergeProjectScoped merges under projects[<parent-of-server-path>].mcpServers.
	// The projects structure must already exist; the merger never creates it.
	MergeProjectScoped
)

// String returns a human-readable strategy name.
func (s MergeStrategy) String() string {
	switch s {
	case MergeFlatRoot:
		return "flat-root"
	case MergeProjectScoped:
		return "project-scoped"
	default:
		return "unknown"
	}
}

// base selects the root a client's config path is derived from.
type base int

const (
	baseHome    base = iota // user home directory
	baseAppData             // windows %APPDATA% (roaming)
	baseProject             // host project root
)

// osPath is one per-OS entry in a descriptor's path table.
type osPath struct {
	base base
	rel  string
}

// Descriptor describes one supported client: where its configuration lives
// per OS and how the fragment is merged into it.
type Descriptor struct {
	// Name is the stable client identifier used on the command line.
	Name string

	// DisplayName is the product name used in diagnostics.
	DisplayName string

	// File is the config file name, appended to the resolved base directory.
	// Empty when the path table entry already names the file itself.
	File string

	// Strategy selects the merge behavior for this client's document shape.
	Strategy MergeStrategy

	// byOS maps a GOOS value to the client's base path entry.
	// A GOOS absent from the map is an unsupported platform.
	byOS map[string]osPath
}

// descriptors is the static client table, in deterministic display order.
// Adding a client is a pure data change.
var descriptors = []*Descriptor{
	{
		Name:        Windsurf,
		DisplayName: "Windsurf",
		File:        "mcp_config.json",
		Strategy:    MergeFlatRoot,
		byOS: map[string]osPath{
			"windows": {baseHome, ".codeium/windsurf"},
			"darwin":  {baseHome, "Library/Application Support/.codeium/windsurf"},
		},
	},
	{
		Name:        ClaudeDesktop,
		DisplayName: "Claude Desktop",
		File:        "claude_desktop_config.json",
		Strategy:    MergeFlatRoot,
		byOS: map[string]osPath{
			"windows": {baseAppData, "Claude"},
			"darwin":  {baseHome, "Library/Application Support/Claude"},
		},
	},
	{
		Name:        Cursor,
		DisplayName: "Cursor",
		File:        "mcp.json",
		Strategy:    MergeFlatRoot,
		byOS: map[string]osPath{
			"windows": {baseHome, ".cursor"},
			"darwin":  {baseHome, ".cursor"},
		},
	},
	{
		Name:        ClaudeCode,
		DisplayName: "Claude Code",
		Strategy:    MergeProjectScoped,
		byOS: map[string]osPath{
			"windows": {baseHome, ".claude.json"},
			"darwin":  {baseHome, ".claude.json"},
		},
	},
	{
		Name:        VSCode,
		DisplayName: "VS Code",
		File:        "mcp.json",
		Strategy:    MergeFlatRoot,
		byOS: map[string]osPath{
			"windows": {baseProject, ".vscode"},
			"darwin":  {baseProject, ".vscode"},
		},
	},
}

// Sentinel errors for client resolution.
var (
	// ErrUnknownClient indicates the client name is not in the table.
	ErrUnknownClient = errors.Mark(errors.New("unknown client"), errors.ErrResolution)

	// ErrUnsupportedOS indicates the current OS has no path entry for the client.
	ErrUnsupportedOS = errors.Mark(errors.New("unsupported operating system"), errors.ErrResolution)
)

// Env carries the environment inputs path resolution depends on.
// Tests construct it directly; live callers use SystemEnv.
type Env struct {
	// GOOS is the target operating system ("windows", "darwin", ...).
	GOOS string

	// Home is the user's home directory (%USERPROFILE% on Windows).
	Home string

	// AppData is the Windows roaming application data directory (%APPDATA%).
	AppData string

	// ProjectRoot is the host project directory for workspace-scoped clients.
	ProjectRoot string
}

// SystemEnv returns the Env for the running process.
// projectRoot may be empty, in which case the working directory is used.
func SystemEnv(projectRoot string) (Env, error) {
	home, err := paths.ResolveHome()
	if err != nil {
		return Env{}, err
	}
	if projectRoot == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return Env{}, errors.Wrap(err, "getting working directory")
		}
		projectRoot = cwd
	}
	return Env{
		GOOS:        runtime.GOOS,
		Home:        home,
		AppData:     os.Getenv("APPDATA"),
		ProjectRoot: projectRoot,
	}, nil
}

// ConfigPath resolves the client's configuration file path for env.
// Returns ErrUnsupportedOS (matching errors.ErrResolution) when env.GOOS has
// no entry; callers must treat that as a hard stop, never a guess.
func (d *Descriptor) ConfigPath(env Env) (string, error) {
	entry, ok := d.byOS[env.GOOS]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedOS, "%s on %s", d.DisplayName, env.GOOS)
	}

	var root string
	switch entry.base {
	case baseHome:
		root = env.Home
	case baseAppData:
		root = env.AppData
	case baseProject:
		root = env.ProjectRoot
	}
	if root == "" {
		return "", errors.Wrapf(ErrUnsupportedOS, "%s: base directory not set", d.DisplayName)
	}

	path := filepath.Join(root, filepath.FromSlash(entry.rel))
	if d.File != "" {
		path = filepath.Join(path, d.File)
	}
	return path, nil
}

// Lookup returns the descriptor for name.
func Lookup(name string) (*Descriptor, error) {
	for _, d := range descriptors {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownClient, "%q", name)
}

// All returns all supported client descriptors in deterministic order.
func All() []*Descriptor {
	out := make([]*Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Names returns all supported client names in deterministic order.
func Names() []string {
	names := make([]string, len(descriptors))
	for i, d := range descriptors {
		names[i] = d.Name
	}
	return names
}

// Valid returns true if name is a supported client identifier.
func Valid(name string) bool {
	_, err := Lookup(name)
	return err == nil
}
