package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/logging"
	"github.com/gfxblit/mcp-unity/internal/npm"
)

var installNpmPath string

func init() {
	installServerCmd.Flags().StringVar(&installNpmPath, "npm-path", "",
		"explicit path to the npm executable")
	rootCmd.AddCommand(installServerCmd)
}

var installServerCmd = &cobra.Command{
	Use:   "install-server",
	Short: "Install dependencies and build the server bundle",
	Long: `Locate the MCP Unity server installation and run npm install followed
by npm run build inside it, producing the build/index.js entry point the
client configurations launch.`,
	Example: `  # Build the server found in the current project
  mcp-unity install-server

  # Use a specific npm binary
  mcp-unity install-server --npm-path /opt/homebrew/bin/npm`,
	RunE: runInstallServer,
}

func runInstallServer(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	root, err := effectiveProjectRoot()
	if err != nil {
		return err
	}

	inst, err := newResolver(root, logger).Resolve()
	if err != nil {
		return errors.NewUserError(err,
			"Install the MCP Unity package in your project, or set server_path in config")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server: %s (%s)\n", inst.Path, inst.Mode)

	npmPath := installNpmPath
	if npmPath == "" && cfg != nil {
		npmPath = cfg.NpmPath
	}
	runner := npm.NewRunner(npm.WithNpmPath(npmPath), npm.WithLogger(logger))

	if _, err := runner.Install(cmd.Context(), inst.Path); err != nil {
		return errors.NewSystemError(err, "Check that npm is installed and on PATH")
	}
	if _, err := runner.Build(cmd.Context(), inst.Path); err != nil {
		return errors.NewSystemError(err, "Check the npm build output above")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Server built.")
	return nil
}
