package main

import (
	"github.com/urfave/cli/v2"

	"github.com/vestigehq/vestige/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes vestige's
analyzers as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "vestige": {
        "command": "vestige",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_graph      Dependency graph with optional metrics
  - analyze_deadcode   Modules unreachable from any entry point
  - analyze_cycles     Circular dependency chains`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	ctx, stop := signalContext()
	defer stop()

	server := mcpserver.NewServer(version)
	return server.Run(ctx)
}
