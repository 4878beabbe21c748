package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/gfxblit/mcp-unity/internal/errors"
)

// AppName is used for per-application subdirectories under XDG base dirs.
const AppName = "mcp-unity"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// ConfigDir returns the application configuration directory.
// Returns: <ConfigHome>/mcp-unity/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// BackupDir returns the directory for client config backups.
// Returns: <DataHome>/mcp-unity/backups/
func BackupDir() string {
	return filepath.Join(DataHome(), AppName, "backups")
}

// Normalize canonicalizes a server installation path for embedding in client
// configuration documents:
//
//   - a single leading "~" artifact (seen in package-registry responses on
//     Windows) is stripped
//   - backslashes become forward slashes
//   - repeated separators are collapsed segment-by-segment
//
// Normalization never touches the content of individual segments, so values
// that legitimately contain "//" elsewhere (URLs, for example) are not at
// risk as long as they are not passed through this function.
func Normalize(path string) string {
	if path == "" {
		return ""
	}

	path = strings.TrimPrefix(path, "~")
	path = strings.ReplaceAll(path, "\\", "/")

	// Collapse repeated separators without disturbing segment content.
	// A leading "/" (or drive prefix) is preserved.
	var b strings.Builder
	b.Grow(len(path))
	prevSlash := false
	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAbs resolves path to an absolute path and normalizes it.
func NormalizeAbs(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving absolute path for %q", path)
	}
	return Normalize(abs), nil
}
