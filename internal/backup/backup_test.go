package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withTempBackupDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig := Dir
	Dir = func() string { return dir }
	t.Cleanup(func() { Dir = orig })
	return dir
}

func TestCreate(t *testing.T) {
	withTempBackupDir(t)

	configPath := filepath.Join(t.TempDir(), "mcp.json")
	content := []byte(`{"mcpServers":{"other":{"command":"x"}}}`)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	backupPath, err := Create("cursor", configPath)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if backupPath == "" {
		t.Fatal("Create() returned empty backup path for existing file")
	}
	if !strings.HasSuffix(backupPath, "-mcp.json") {
		t.Errorf("backup name = %q, want timestamped original name", filepath.Base(backupPath))
	}

	got, err := os.ReadFile(backupPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Error("backup content does not match source")
	}
}

func TestCreate_MissingSource(t *testing.T) {
	withTempBackupDir(t)

	backupPath, err := Create("cursor", filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Create() error = %v, want nil for missing source", err)
	}
	if backupPath != "" {
		t.Errorf("backup path = %q, want empty", backupPath)
	}
}

func TestList(t *testing.T) {
	withTempBackupDir(t)

	if got, err := List("windsurf"); err != nil || len(got) != 0 {
		t.Fatalf("List() = %v, %v; want empty, nil", got, err)
	}

	configPath := filepath.Join(t.TempDir(), "mcp_config.json")
	if err := os.WriteFile(configPath, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Create("windsurf", configPath); err != nil {
		t.Fatal(err)
	}

	got, err := List("windsurf")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("List() returned %d backups, want 1", len(got))
	}
}
