package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "kbstudio/internal/adapters/mcp"
	"kbstudio/internal/adapters/schema"
	"kbstudio/internal/adapters/sqlite"
	"kbstudio/internal/config"
	"kbstudio/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "kbstudio-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	storeFlag := flag.String("store", cfg.StorePath, "path to the workflow database")
	flag.Parse()

	// stdout carries the MCP protocol
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}, os.Stderr)
	if err != nil {
		return err
	}

	store := sqlite.NewStore()
	if err := store.Open(*storeFlag); err != nil {
		return err
	}
	defer store.Close()

	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}

	mcpServer := server.NewMCPServer(
		"kbstudio-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithToolHandlerMiddleware(mcpadapter.WithLogger(logger)),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, store)
	mcpadapter.RegisterWriteTools(mcpServer, mcpadapter.WriteDeps{
		Store:          store,
		Validator:      validator,
		RewriteOptions: cfg.RewriteOptions(),
	})

	logger.Info().Str("store", store.Path()).Msg("serving MCP on stdio")
	return server.ServeStdio(mcpServer)
}
