// Package npm runs the package-manager commands that install and build the
// MCP Unity server bundle, capturing output and reporting an explicit
// success or failure outcome.
package npm
