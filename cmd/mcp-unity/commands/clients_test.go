package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfxblit/mcp-unity/internal/client"
)

func TestClientsCommandJSON(t *testing.T) {
	out, err := executeRoot(t, "clients", "--json")
	require.NoError(t, err)

	var reports []clientReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, len(client.Names()))

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Name
		assert.NotEmpty(t, r.Display)
		assert.NotEmpty(t, r.Status)
	}
	assert.Equal(t, client.Names(), names)
}

func TestVersionFlag(t *testing.T) {
	out, err := executeRoot(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "mcp-unity version")
}
