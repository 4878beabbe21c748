// Package errors provides error handling conventions for the mcp-unity CLI.
//
// This package defines sentinel errors for the failure kinds the tool
// distinguishes (resolution, document shape, parse, process), an ExitError
// type for CLI exit code handling, and exit code constants following
// standard Unix conventions.
//
// Construction and wrapping helpers are re-exported from
// github.com/cockroachdb/errors so callers use a single import:
//
//	if err := syncer.Sync(name, style); err != nil {
//	    if errors.Is(err, errors.ErrDocumentShape) {
//	        // setup problem, not file corruption
//	    }
//	}
package errors
