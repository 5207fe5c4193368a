package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	mcpSdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyrohl/cdash-mcp/internal/cdash"
	"github.com/cbyrohl/cdash-mcp/internal/config"
	"github.com/cbyrohl/cdash-mcp/internal/log"
	"github.com/cbyrohl/cdash-mcp/internal/mcp"
	"github.com/cbyrohl/cdash-mcp/internal/observability"
)

// runServe initializes and starts the MCP server on stdio transport.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.New(log.Config{
		Level: log.ParseLevel(cfg.LogLevel),
		JSON:  cfg.LogJSON,
	})

	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting MCP server", "version", Version, "cdash_url", cfg.BaseURL)

	stopTracing, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "cdash-mcp",
		Version:     Version,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		if err := stopTracing(context.Background()); err != nil {
			logger.Warn("tracing shutdown error", "error", err)
		}
	}()

	client, err := cdash.NewClient(cdash.Config{
		BaseURL:           cfg.BaseURL,
		Token:             cfg.Token,
		Timeout:           time.Duration(cfg.TimeoutSeconds) * time.Second,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("creating CDash client: %w", err)
	}
	defer client.Close()

	server, err := mcp.NewServer(mcp.Config{
		Name:    "cdash-mcp",
		Version: Version,
		Client:  client,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("creating MCP server: %w", err)
	}

	logger.Info("MCP server ready", "name", "cdash-mcp", "version", Version, "transport", "stdio")

	if err := server.Run(ctx, &mcpSdk.StdioTransport{}); err != nil {
		return fmt.Errorf("MCP server error: %w", err)
	}

	logger.Info("MCP server shut down gracefully")
	return nil
}
