// Package mcpserver exposes vestige analyses as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all vestige analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates a new MCP server with all vestige tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vestige",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds all vestige analyzer tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_graph",
		Description: describeGraph(),
	}, handleAnalyzeGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_deadcode",
		Description: describeDeadcode(),
	}, handleAnalyzeDeadcode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_cycles",
		Description: describeCycles(),
	}, handleAnalyzeCycles)
}
