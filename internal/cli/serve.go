package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"project-upgrader/internal/mcp"
)

func newServeCommand() *cobra.Command {
	opts := configOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upgrade operation over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			log.Ctx(cmd.Context()).Info().Str("version", version).Msg("serving MCP over stdio")
			return server.ServeStdio(mcp.NewUpgraderMCPServer(newAppService(), cfg, version))
		},
	}
	addConfigFlags(cmd, &opts)
	return cmd
}
