// Package commands implements the CLI commands for mcp-unity.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/config"
	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/logging"
)

// version is set at build time via ldflags.
// Default to a development version for local builds.
const version = "0.1.0"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configFile holds the value of the --config flag.
var configFile string

// projectRoot holds the value of the --project-root flag.
var projectRoot string

// cfg is the loaded application configuration.
var cfg *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

// logBuffer retains recent log records for the get_logs tool. It is fanned
// into alongside the primary handler so every command feeds it.
var logBuffer = logging.NewBuffer(logging.DefaultBufferCapacity)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"path to config file (default: search ./ and XDG config dir)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", "",
		"Unity project root (default: current directory)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("mcp-unity version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "mcp-unity",
	Short: "Synchronize MCP Unity server configuration across AI clients",
	Long: `mcp-unity registers the MCP Unity server with the AI assistant tools
installed on this machine: Windsurf, Claude Desktop, Cursor, Claude Code,
and VS Code.

It locates the server installation inside your Unity project (package
cache or loose asset), generates the launch configuration, and merges it
into each client's own config file without disturbing anything else in
those files.`,
	Example: `  # Sync every detected client
  mcp-unity sync --all

  # Sync specific clients
  mcp-unity sync cursor claude-desktop

  # Show client installation status
  mcp-unity clients

  # Build the server bundle
  mcp-unity install-server

  # Check system health
  mcp-unity doctor`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
// Every handler combination also feeds the in-memory log buffer.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(nil, "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv("MCP_UNITY_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 1
				case "2":
					v = 2
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var primaryHandler slog.Handler
	switch logging.Format(logFormat) {
	case logging.FormatJSON:
		primaryHandler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	default:
		primaryHandler = logging.NewHandler(cmd.ErrOrStderr(), opts)
	}

	handlers := []slog.Handler{primaryHandler, logBuffer}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: level,
		}))
	}

	logger := slog.New(logging.NewMultiHandler(handlers...))
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig surfaces config load errors before any subcommand runs.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	return nil
}

// effectiveProjectRoot resolves the project root from the --project-root
// flag, then config, then the working directory.
func effectiveProjectRoot() (string, error) {
	if projectRoot != "" {
		return projectRoot, nil
	}
	if cfg != nil && cfg.ProjectRoot != "" {
		return cfg.ProjectRoot, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "getting working directory")
	}
	return cwd, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
