// Package sync merges the MCP Unity server registration into the
// configuration files of supported AI clients, preserving every byte of
// unrelated configuration those files already carry.
package sync
