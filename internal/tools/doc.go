// Package tools dispatches named operations invoked with JSON parameters,
// shaping every outcome into a structured success or error response.
package tools
