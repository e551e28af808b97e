package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"project-upgrader/internal/app"
)

func newValidateCommand() *cobra.Command {
	opts := configOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the upgrade configuration without touching any manifest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	addConfigFlags(cmd, &opts)
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts configOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Validate(ctx, app.ValidateRequest{Config: cfg})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderHints(result.Hints))
	fmt.Fprintf(out, "validated: %s (%d projects)\n", result.ProjectName, result.Projects)
	return nil
}
