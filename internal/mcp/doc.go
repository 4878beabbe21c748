// Package mcp serves the tool dispatcher over the Model Context Protocol's
// stdio transport, answering initialize, tools/list, and tools/call
// requests as newline-delimited JSON-RPC frames.
package mcp
