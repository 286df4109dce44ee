// Package mcpserver exposes the governance operations as MCP tools.
package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/governance/internal/core"
)

const (
	serverName    = "governance"
	serverVersion = "1.0.0"
)

// New builds a streamable HTTP MCP endpoint serving the governance tools. The
// handler answers on whatever path it is mounted at.
func New(svc *core.GovernanceService, logger zerolog.Logger) http.Handler {
	mcpSrv := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithInstructions("Cluster governance: list and toggle proxy instances and replica data sources."),
	)

	tools := Tools(svc)
	mcpSrv.AddTools(tools...)
	logger.Info().Int("tools", len(tools)).Msg("mounted MCP governance tools")

	return server.NewStreamableHTTPServer(mcpSrv,
		server.WithEndpointPath("/"),
	)
}
