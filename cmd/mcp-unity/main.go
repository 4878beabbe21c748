// Package main is the entry point for the mcp-unity CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gfxblit/mcp-unity/cmd/mcp-unity/commands"
	"github.com/gfxblit/mcp-unity/internal/errors"
)

func main() {
	if err := commands.Execute(); err != nil {
		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintln(os.Stderr, exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
