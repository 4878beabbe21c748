package commands

import (
	"encoding/json"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/tools"
)

func init() {
	rootCmd.AddCommand(toolCmd)
}

var toolCmd = &cobra.Command{
	Use:   "tool <name> [params-json]",
	Short: "Invoke a dispatch tool directly",
	Long: `Invoke one of the dispatch tools from the command line, passing its
parameters as a JSON object. The structured result is printed as JSON.`,
	Example: `  # Last 10 error entries
  mcp-unity tool get_logs '{"logType":"error","limit":10}'

  # Defaults
  mcp-unity tool get_logs`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTool,
}

// newDispatcher builds the tool dispatcher over the process-wide log buffer.
func newDispatcher(logger *slog.Logger) *tools.Dispatcher {
	return tools.NewDispatcher(logger,
		tools.NewGetLogsTool(tools.NewBufferLogService(logBuffer)))
}

func runTool(cmd *cobra.Command, args []string) error {
	params := tools.Params{}
	if len(args) == 2 {
		if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
			return errors.NewUserError(
				errors.Wrap(err, "parsing parameters"),
				"Pass parameters as a JSON object, e.g. '{\"limit\":10}'")
		}
	}

	result := newDispatcher(slog.Default()).Dispatch(args[0], params)

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return errors.Wrap(err, "encoding result")
	}

	if result["success"] != true {
		return errors.NewExitError(nil, errors.ExitUser)
	}
	return nil
}
