package commands

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gfxblit/mcp-unity/internal/client"
	"github.com/gfxblit/mcp-unity/internal/doctor"
	"github.com/gfxblit/mcp-unity/internal/errors"
	"github.com/gfxblit/mcp-unity/internal/logging"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup issues",
	Long: `Run diagnostic checks: configuration file, server installation,
npm availability, and client detection.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.New("flags --json, --quiet, and --verbose are mutually exclusive")
	}

	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	logger := logging.FromContext(cmd.Context())

	root, err := effectiveProjectRoot()
	if err != nil {
		return err
	}
	env, err := client.SystemEnv(root)
	if err != nil {
		return err
	}

	var npmPath string
	if cfg != nil {
		npmPath = cfg.NpmPath
	}

	runner := doctor.NewRunner(
		&doctor.ConfigCheck{Path: configFile},
		&doctor.ServerCheck{Resolver: newResolver(root, logger)},
		&doctor.NpmCheck{Path: npmPath},
		&doctor.ClientsCheck{Env: env},
	)

	report := runner.Run()

	if err := outputDoctorReport(cmd, report); err != nil {
		return err
	}

	switch {
	case report.HasErrors():
		return errors.NewExitError(nil, errors.ExitSystem)
	case report.HasWarnings():
		return errors.NewExitError(nil, errors.ExitUser)
	default:
		return nil
	}
}

func outputDoctorReport(cmd *cobra.Command, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}

	if doctorJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return errors.Wrap(encoder.Encode(report), "encoding report")
	}

	pass := color.New(color.FgGreen).SprintFunc()
	warn := color.New(color.FgYellow).SprintFunc()
	fail := color.New(color.FgRed).SprintFunc()

	for _, r := range report.Results {
		var marker string
		switch r.Status {
		case doctor.SeverityPass, doctor.SeverityInfo:
			if !doctorVerbose {
				continue
			}
			marker = pass("✓")
		case doctor.SeverityWarning:
			marker = warn("!")
		default:
			marker = fail("✗")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", marker, r.Category, r.Message)
		if r.FixHint != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", r.FixHint)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d passed, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Warnings, report.Summary.Errors)
	return nil
}
