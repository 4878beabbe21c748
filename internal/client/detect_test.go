package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDetect_Installed(t *testing.T) {
	home := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".cursor"), 0o755); err != nil {
		t.Fatal(err)
	}

	env := Env{GOOS: "darwin", Home: home, ProjectRoot: t.TempDir()}
	d, err := Lookup(Cursor)
	if err != nil {
		t.Fatal(err)
	}

	result := Detect(d, env)
	if result.Status != StatusInstalled {
		t.Errorf("Status = %q, want installed", result.Status)
	}
	if result.ConfigPath != filepath.Join(home, ".cursor", "mcp.json") {
		t.Errorf("ConfigPath = %q", result.ConfigPath)
	}
}

func TestDetect_NotInstalled(t *testing.T) {
	env := Env{GOOS: "darwin", Home: t.TempDir(), ProjectRoot: t.TempDir()}
	d, err := Lookup(Windsurf)
	if err != nil {
		t.Fatal(err)
	}

	if result := Detect(d, env); result.Status != StatusNotInstalled {
		t.Errorf("Status = %q, want not_installed", result.Status)
	}
}

func TestDetect_SingleFileClient(t *testing.T) {
	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, ".claude.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	env := Env{GOOS: "darwin", Home: home, ProjectRoot: t.TempDir()}
	d, err := Lookup(ClaudeCode)
	if err != nil {
		t.Fatal(err)
	}

	if result := Detect(d, env); result.Status != StatusInstalled {
		t.Errorf("Status = %q, want installed", result.Status)
	}
}

func TestDetect_Unsupported(t *testing.T) {
	env := Env{GOOS: "linux", Home: t.TempDir()}
	d, err := Lookup(Cursor)
	if err != nil {
		t.Fatal(err)
	}

	result := Detect(d, env)
	if result.Status != StatusUnsupported {
		t.Errorf("Status = %q, want unsupported", result.Status)
	}
	if result.ConfigPath != "" {
		t.Errorf("ConfigPath = %q, want empty", result.ConfigPath)
	}
}

func TestDetectInstalled(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	if err := os.MkdirAll(filepath.Join(home, ".cursor"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(project, ".vscode"), 0o755); err != nil {
		t.Fatal(err)
	}

	env := Env{GOOS: "darwin", Home: home, ProjectRoot: project}
	installed := DetectInstalled(env)

	names := make(map[string]bool)
	for _, r := range installed {
		names[r.Client.Name] = true
	}
	if !names[Cursor] || !names[VSCode] {
		t.Errorf("expected cursor and vscode installed, got %v", names)
	}
	if names[Windsurf] {
		t.Error("windsurf should not be detected as installed")
	}
}
