// Package mcptools exposes the configuration engine as Model Context
// Protocol tools so assistants can price, check and compare builds.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/HerbHall/rigplanner/internal/engine"
	"github.com/HerbHall/rigplanner/internal/version"
)

// ServerName is reported to MCP clients during initialization.
const ServerName = "rigplanner"

// Server wraps an MCP server whose tools call into the engine.
type Server struct {
	engine *engine.Engine
	logger *zap.Logger
	mcp    *mcp.Server
}

// NewServer creates a server with every tool registered.
func NewServer(e *engine.Engine, logger *zap.Logger) *Server {
	s := &Server{
		engine: e,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    ServerName,
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// MCP returns the underlying SDK server, e.g. for in-memory transports.
func (s *Server) MCP() *mcp.Server {
	return s.mcp
}

// Run serves over stdin/stdout until ctx is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting MCP server", zap.String("transport", "stdio"))
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
