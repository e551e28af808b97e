package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"project-upgrader/internal/app"
)

type inspectOptions struct {
	ReportPath string
	Plain      bool
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a persisted run report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "Report file written by upgrade (defaults to report_file)")
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Print the activity log rendering instead of the summary")
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService()
	result, err := service.Inspect(app.InspectRequest{
		ReportPath: resolveString(cmd, opts.ReportPath, "report_file", "report"),
	})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.Plain {
		for _, line := range result.Lines {
			fmt.Fprintln(out, line)
		}
		return nil
	}
	fmt.Fprint(out, renderSummary("", result.Report))
	return nil
}
