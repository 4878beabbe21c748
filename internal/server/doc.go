// Package server locates the MCP Unity server installation on disk and
// builds the canonical registration fragment that clients merge into their
// configuration files.
//
// An installation is found either through the package registry (the
// project's package cache) or as a loose asset identified by its build
// configuration marker. Resolution is recomputed on every request so the
// result always reflects the current disk state.
package server
