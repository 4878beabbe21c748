// Package backup preserves client configuration files before the
// synchronizer mutates them.
//
// Backups are stored under <DataHome>/mcp-unity/backups/<client>/ with a
// timestamped file name, so a bad merge can always be undone by hand.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/paths"
)

// timeFormat orders backup files lexically by creation time.
const timeFormat = "20060102-150405"

// Dir is overridable for tests. Defaults to paths.BackupDir().
var Dir = paths.BackupDir

// Create copies the file at configPath into the backup directory for client.
// A missing source file is not an error: there is nothing to preserve, and
// the returned path is empty.
func Create(client, configPath string) (string, error) {
	src, err := os.Open(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrapf(err, "opening %s for backup", configPath)
	}
	defer src.Close()

	destDir := filepath.Join(Dir(), client)
	if err := paths.EnsureDir(destDir, 0); err != nil {
		return "", errors.Wrapf(err, "creating backup directory %s", destDir)
	}

	name := time.Now().UTC().Format(timeFormat) + "-" + filepath.Base(configPath)
	destPath := filepath.Join(destDir, name)

	dest, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o600)
	if err != nil {
		return "", errors.Wrapf(err, "creating backup file %s", destPath)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, src); err != nil {
		os.Remove(destPath)
		return "", errors.Wrap(err, "copying config to backup")
	}

	return destPath, nil
}

// List returns the backup file paths recorded for client, oldest first.
func List(client string) ([]string, error) {
	dir := filepath.Join(Dir(), client)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading backup directory %s", dir)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}
