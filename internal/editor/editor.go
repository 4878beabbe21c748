// Package editor launches the user's preferred text editor.
package editor

import (
	"os"
	"os/exec"

	"github.com/gfxblit/mcp-unity/internal/errors"
)

// Open launches the user's preferred editor on path, attached to the
// current terminal, and blocks until it exits.
// The editor is resolved from $EDITOR, then $VISUAL, then nano, then vi.
func Open(path string) error {
	cmd := exec.Command(Detect(), path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return errors.Wrap(cmd.Run(), "running editor")
}

// Detect returns the editor command to use.
// Fallback chain: $EDITOR, $VISUAL, nano if present, vi.
func Detect() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
