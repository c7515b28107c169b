package main

import (
	"fmt"

	"github.com/aretw0/wayfinder/internal/cli"
	"github.com/aretw0/wayfinder/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the Model Context Protocol (MCP) server",
		Long: `Exposes the engine to AI agents as MCP tools: build_path_system, build_slice,
extract_path and list_automata, plus the graph as a resource.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			transport, _ := cmd.Flags().GetString("transport")
			port, _ := cmd.Flags().GetInt("port")

			ws, logger, err := openWorkspace(cmd, true)
			if err != nil {
				return err
			}
			defer ws.Close()
			p, err := ws.Load(cmd.Context())
			if err != nil {
				return err
			}
			srv := mcp.NewServer(p.Engine, logger)

			switch transport {
			case "stdio":
				logger.Info("Starting MCP server (stdio)")
				return srv.ServeStdio()
			case "sse":
				sc := cli.NewSignalContext(cmd.Context())
				defer sc.Cancel()
				logger.Info("Starting MCP server (SSE)", "port", port)
				return srv.ServeSSE(sc, port)
			default:
				return fmt.Errorf("unknown transport %q (supported: stdio, sse)", transport)
			}
		},
	}
	cmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	cmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	return cmd
}
