package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"project-upgrader/internal/app"
)

type registryIndexOptions struct {
	configOptions
	Output string
}

func newRegistryIndexCommand() *cobra.Command {
	opts := registryIndexOptions{}
	cmd := &cobra.Command{
		Use:   "registry-index",
		Short: "Snapshot registry versions of every referenced package into an index file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRegistryIndex(cmd.Context(), cmd, opts)
		},
	}
	addConfigFlags(cmd, &opts.configOptions)
	cmd.Flags().StringVar(&opts.Output, "output", "registry-index.yaml", "Index file to write")
	return cmd
}

func runRegistryIndex(ctx context.Context, cmd *cobra.Command, opts registryIndexOptions) error {
	cfg, err := loadConfig(cmd, opts.configOptions)
	if err != nil {
		return err
	}
	service := newAppService()
	result, err := service.RegistryIndex(ctx, app.RegistryIndexRequest{
		Config: cfg,
		Output: opts.Output,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registry index: %s (%d manifests, %d packages, %d with versions)\n",
		result.OutputPath, result.ManifestCount, result.PackageCount, result.IndexedCount)
	return nil
}
