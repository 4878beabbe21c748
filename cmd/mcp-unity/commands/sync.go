package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/config"
	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/logging"
	"github.com/gfxblit/mcp-unity/internal/server"
	"github.com/gfxblit/mcp-unity/internal/sync"
)

var (
	syncAll        bool
	syncIndent     string
	syncNoBackup   bool
	syncServerPath string
)

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false,
		"sync every client detected as installed")
	syncCmd.Flags().StringVar(&syncIndent, "indent", "",
		"fragment indentation: tabs, spaces (default from config)")
	syncCmd.Flags().BoolVar(&syncNoBackup, "no-backup", false,
		"skip backing up existing config files before rewriting")
	syncCmd.Flags().StringVar(&syncServerPath, "server-path", "",
		"explicit server installation path, skipping resolution")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [client...]",
	Short: "Merge the server registration into client config files",
	Long: `Merge the MCP Unity launch configuration into the config files of the
named clients. With --all, every client detected as installed is synced.
With no arguments on a terminal, an interactive picker is shown.

Existing configuration is preserved: only the mcp-unity entry under
mcpServers is written, and the previous file is backed up first.`,
	Example: `  # Pick a client interactively
  mcp-unity sync

  # Sync everything installed
  mcp-unity sync --all

  # Sync two clients with tab indentation
  mcp-unity sync cursor vscode --indent tabs`,
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return client.Names(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	logger := logging.FromContext(cmd.Context())

	root, err := effectiveProjectRoot()
	if err != nil {
		return err
	}
	env, err := client.SystemEnv(root)
	if err != nil {
		return err
	}

	targets, err := selectTargets(args, env)
	if err != nil {
		return err
	}

	style := server.ParseIndentStyle(indentSetting())
	syncer := sync.New(env, newResolver(root, logger),
		sync.WithLogger(logger), sync.WithBackup(!syncNoBackup))

	ok := color.New(color.FgGreen).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	var failed []string
	for _, name := range targets {
		if err := syncer.Sync(name, style); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %v\n", fail("✗"), name, err)
			failed = append(failed, name)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ok("✓"), name)
	}

	if len(failed) > 0 {
		return errors.NewUserError(
			errors.Newf("sync failed for %s", strings.Join(failed, ", ")),
			"Run with -v for details, or: mcp-unity doctor")
	}
	return nil
}

// selectTargets decides which clients to sync: explicit names, everything
// installed, or an interactive choice.
func selectTargets(args []string, env client.Env) ([]string, error) {
	if len(args) > 0 {
		var invalid []string
		for _, name := range args {
			if !client.Valid(name) {
				invalid = append(invalid, name)
			}
		}
		if len(invalid) > 0 {
			err := errors.Newf("unknown client(s): %s (valid: %s)",
				strings.Join(invalid, ", "), strings.Join(client.Names(), ", "))
			return nil, errors.NewUserError(err, "Run: mcp-unity clients")
		}
		return args, nil
	}

	if syncAll {
		installed := client.DetectInstalled(env)
		if len(installed) == 0 {
			return nil, errors.NewUserError(
				errors.New("no supported clients detected"),
				"Run: mcp-unity clients")
		}
		targets := make([]string, len(installed))
		for i, r := range installed {
			targets[i] = r.Client.Name
		}
		return targets, nil
	}

	if !logging.IsTTY(os.Stdin) {
		return nil, errors.NewUserError(
			errors.New("no clients specified"),
			"Name clients to sync, or pass --all")
	}
	return pickTarget(env)
}

// pickTarget shows a fuzzy picker over all known clients with their
// detection status as preview.
func pickTarget(env client.Env) ([]string, error) {
	results := client.DetectAll(env)

	idx, err := fuzzyfinder.Find(
		results,
		func(i int) string {
			return fmt.Sprintf("%s (%s)", results[i].Client.DisplayName, results[i].Status)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			r := results[i]
			return fmt.Sprintf("Client: %s\nStatus: %s\nConfig: %s\nMerge: %s",
				r.Client.DisplayName,
				r.Status,
				r.ConfigPath,
				r.Client.Strategy,
			)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, errors.NewExitError(nil, errors.ExitSuccess)
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	return []string{results[idx].Client.Name}, nil
}

// indentSetting resolves the fragment indentation from flag, then config.
func indentSetting() string {
	if syncIndent != "" {
		return syncIndent
	}
	if cfg != nil && cfg.Indent != "" {
		return cfg.Indent
	}
	return config.IndentSpaces
}

// newResolver builds the server resolver honoring the --server-path flag
// and the configured override.
func newResolver(root string, logger *slog.Logger) *server.Resolver {
	override := syncServerPath
	if override == "" && cfg != nil {
		override = cfg.ServerPath
	}
	return server.NewResolver(root,
		server.WithOverride(override),
		server.WithLogger(logger))
}
