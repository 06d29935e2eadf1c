package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/workshop/internal/cli"
	"github.com/aretw0/workshop/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the exercises as MCP tools so AI agents can start sessions,
place items and check sentences.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		baseURL, _ := cmd.Flags().GetString("base-url")

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		// Logs go to stderr so they never corrupt JSON-RPC on stdout.
		app, err := newApp(ctx, cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer func() {
			if err := app.Close(context.WithoutCancel(ctx)); err != nil {
				app.Logger.Warn("Shutdown incomplete", "err", err)
			}
		}()

		srv := mcp.NewServer(app.Workshop, app.Sessions, mcp.WithLogger(app.Logger))

		switch transport {
		case "stdio":
			app.Logger.Info("Starting Workshop MCP Server (Stdio)")
			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("mcp server failed: %w", err)
			}
		case "sse":
			addr := app.Config.Server.Addr
			if baseURL == "" {
				baseURL = "http://localhost" + addr
			}
			if err := srv.ServeSSE(ctx, addr, baseURL); err != nil {
				return fmt.Errorf("mcp server failed: %w", err)
			}
			app.Logger.Info("MCP Server stopped gracefully", "signal", ctx.Signal())
		default:
			return fmt.Errorf("unknown transport %q: supported transports are stdio and sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", ":8080", "Address to listen on (only for SSE)")
	mcpCmd.Flags().String("base-url", "", "Public base URL announced to SSE clients")
}
