package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/errors"
)

var clientsJSON bool

func init() {
	clientsCmd.Flags().BoolVar(&clientsJSON, "json", false,
		"output results as JSON")
	rootCmd.AddCommand(clientsCmd)
}

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show supported clients and their installation status",
	Long: `List every supported AI client with its resolved configuration file
path and whether it appears installed on this machine.`,
	RunE: runClients,
}

// clientReport is the JSON shape of one detection result.
type clientReport struct {
	Name       string `json:"name"`
	Display    string `json:"displayName"`
	Status     string `json:"status"`
	ConfigPath string `json:"configPath,omitempty"`
}

func runClients(cmd *cobra.Command, _ []string) error {
	root, err := effectiveProjectRoot()
	if err != nil {
		return err
	}
	env, err := client.SystemEnv(root)
	if err != nil {
		return err
	}

	results := client.DetectAll(env)

	if clientsJSON {
		reports := make([]clientReport, len(results))
		for i, r := range results {
			reports[i] = clientReport{
				Name:       r.Client.Name,
				Display:    r.Client.DisplayName,
				Status:     string(r.Status),
				ConfigPath: r.ConfigPath,
			}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(reports), "encoding client report")
	}

	installed := color.New(color.FgGreen).SprintFunc()
	missing := color.New(color.FgYellow).SprintFunc()
	unsupported := color.New(color.FgRed).SprintFunc()

	for _, r := range results {
		var status string
		switch r.Status {
		case client.StatusInstalled:
			status = installed("installed")
		case client.StatusNotInstalled:
			status = missing("not installed")
		default:
			status = unsupported("unsupported")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-14s %s\n", r.Client.Name, status, r.ConfigPath)
	}
	return nil
}
