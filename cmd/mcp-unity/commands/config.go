package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gfxblit/mcp-unity/internal/config"
	"github.com/gfxblit/mcp-unity/internal/editor"
	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/paths"
	"github.com/gfxblit/mcp-unity/pkg/fileutil"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcp-unity configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a config file with the default settings to the XDG config
directory. Edit it to set a fixed project root, server path, npm path,
or indentation style.`,
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultPath())
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in your editor",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := config.DefaultPath()
		if configFile != "" {
			path = configFile
		}
		if _, err := os.Stat(path); err != nil {
			return errors.NewUserError(
				errors.Newf("no config file at %s", path),
				"Run: mcp-unity config init")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Editing %s\n", path)
		return editor.Open(path)
	},
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.DefaultPath()
	if configFile != "" {
		path = configFile
	}

	if _, err := os.Stat(path); err == nil && !configInitForce {
		return errors.NewUserError(
			errors.Newf("config file already exists at %s", path),
			"Pass --force to overwrite it")
	}

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return err
	}

	starter := config.Config{
		Indent: config.IndentSpaces,
	}
	if err := fileutil.AtomicWriteYAML(path, &starter); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	_, err = cmd.OutOrStdout().Write(data)
	return errors.Wrap(err, "writing config")
}
