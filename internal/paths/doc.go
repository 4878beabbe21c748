// Package paths centralizes filesystem path resolution for mcp-unity.
//
// It wraps os.UserHomeDir and the XDG base directories (via adrg/xdg) and
// provides the path normalization applied to server installation paths
// before they are embedded in client configuration documents.
package paths
