package paths

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "empty",
			in:   "",
			want: "",
		},
		{
			name: "backslashes converted",
			in:   `C:\Users\dev\project\Server~`,
			want: "C:/Users/dev/project/Server~",
		},
		{
			name: "leading tilde artifact stripped",
			in:   `~C:\Users\dev\project`,
			want: "C:/Users/dev/project",
		},
		{
			name: "only one tilde stripped",
			in:   "~~weird",
			want: "~weird",
		},
		{
			name: "doubled separators collapsed",
			in:   "/home/dev//project///Server~",
			want: "/home/dev/project/Server~",
		},
		{
			name: "mixed separators",
			in:   `/home/dev\project\\Server~`,
			want: "/home/dev/project/Server~",
		},
		{
			name: "clean path unchanged",
			in:   "/home/dev/project/Server~",
			want: "/home/dev/project/Server~",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeAbs(t *testing.T) {
	dir := t.TempDir()

	got, err := NormalizeAbs(dir)
	if err != nil {
		t.Fatalf("NormalizeAbs() error = %v", err)
	}
	if !filepath.IsAbs(filepath.FromSlash(got)) {
		t.Errorf("NormalizeAbs(%q) = %q, want absolute", dir, got)
	}
}

func TestResolveHome(t *testing.T) {
	home, err := ResolveHome()
	if err != nil {
		t.Fatalf("ResolveHome() error = %v", err)
	}
	if home == "" {
		t.Error("ResolveHome() returned empty string")
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "c")

	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir did not create a directory")
	}

	// Idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() second call error = %v", err)
	}
}

func TestAppDirs(t *testing.T) {
	if ConfigDir() == "" {
		t.Error("ConfigDir() returned empty string")
	}
	if BackupDir() == "" {
		t.Error("BackupDir() returned empty string")
	}
}
