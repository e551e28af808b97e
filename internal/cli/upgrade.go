package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"project-upgrader/internal/app"
)

func newUpgradeCommand() *cobra.Command {
	opts := configOptions{}
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade project manifests and apply package updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpgrade(cmd.Context(), cmd, opts)
		},
	}
	addConfigFlags(cmd, &opts)
	return cmd
}

func runUpgrade(ctx context.Context, cmd *cobra.Command, opts configOptions) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.Upgrade(ctx, app.UpgradeRequest{Config: cfg})
	if err != nil && result.Status == "" {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, renderHints(result.Hints))
	fmt.Fprint(out, renderSummary(result.Status, result.Report))
	fmt.Fprintf(out, "\nactivity log: %s\n", result.LogFile)
	if result.ReportFile != "" && err == nil {
		fmt.Fprintf(out, "report: %s\n", result.ReportFile)
	}
	if result.GitDirty {
		log.Ctx(ctx).Warn().Str("head", result.GitHead).Msg("manifests were rewritten in a worktree with uncommitted changes")
	}
	return err
}
