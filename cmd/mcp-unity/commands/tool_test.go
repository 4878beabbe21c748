package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeRoot runs the root command with args, capturing stdout and stderr.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestToolCommandGetLogs(t *testing.T) {
	out, err := executeRoot(t, "tool", "get_logs", `{"limit":5}`)
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, true, result["success"])
	assert.Contains(t, result["message"], "log entries")
}

func TestToolCommandUnknownToolFails(t *testing.T) {
	out, err := executeRoot(t, "tool", "bogus")
	require.Error(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "tool_execution_error", result["errorCode"])
}

func TestToolCommandRejectsBadParams(t *testing.T) {
	_, err := executeRoot(t, "tool", "get_logs", "{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing parameters")
}
