package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/config"
	"github.com/gfxblit/mcp-unity/internal/errors"
)

func darwinEnv(t *testing.T) client.Env {
	t.Helper()
	home := t.TempDir()
	return client.Env{GOOS: "darwin", Home: home, ProjectRoot: home}
}

func TestSelectTargetsExplicitNames(t *testing.T) {
	targets, err := selectTargets([]string{client.Cursor, client.VSCode}, darwinEnv(t))
	require.NoError(t, err)
	assert.Equal(t, []string{client.Cursor, client.VSCode}, targets)
}

func TestSelectTargetsRejectsUnknownNames(t *testing.T) {
	_, err := selectTargets([]string{"emacs"}, darwinEnv(t))
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ExitUser, exitErr.Code)
	assert.Contains(t, err.Error(), "emacs")
}

func TestSelectTargetsAllUsesDetection(t *testing.T) {
	env := darwinEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Join(env.Home, ".cursor"), 0o755))

	syncAll = true
	defer func() { syncAll = false }()

	targets, err := selectTargets(nil, env)
	require.NoError(t, err)
	assert.Contains(t, targets, client.Cursor)
	assert.NotContains(t, targets, client.ClaudeCode)
}

func TestSelectTargetsAllWithNothingInstalled(t *testing.T) {
	syncAll = true
	defer func() { syncAll = false }()

	_, err := selectTargets(nil, darwinEnv(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no supported clients detected")
}

func TestSelectTargetsNoArgsWithoutTerminal(t *testing.T) {
	// Test processes have no TTY on stdin, so this exercises the
	// non-interactive refusal.
	_, err := selectTargets(nil, darwinEnv(t))
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Suggestion, "--all")
}

func TestIndentSettingPrecedence(t *testing.T) {
	origIndent, origCfg := syncIndent, cfg
	defer func() { syncIndent, cfg = origIndent, origCfg }()

	syncIndent = ""
	cfg = nil
	assert.Equal(t, config.IndentSpaces, indentSetting())

	cfg = &config.Config{Indent: config.IndentTabs}
	assert.Equal(t, config.IndentTabs, indentSetting())

	syncIndent = config.IndentSpaces
	assert.Equal(t, config.IndentSpaces, indentSetting())
}
