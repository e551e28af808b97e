package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"project-upgrader/internal/app"
	"project-upgrader/internal/types"
)

// NewUpgraderMCPServer creates an MCP server exposing the upgrade run as a
// tool. base is the configuration used when a call does not name a config
// file. Runs are serialized; a call waits for the one in progress.
func NewUpgraderMCPServer(service app.Service, base types.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"project-upgrader",
		version,
		server.WithToolCapabilities(true),
	)
	registerTools(s, newToolState(service, base))
	return s
}
