package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/cbyrohl/cdash-mcp/internal/cdash"
	"github.com/cbyrohl/cdash-mcp/internal/log"
	"github.com/cbyrohl/cdash-mcp/internal/report"
)

// Default page sizes for list-shaped tools. Callers can override with the
// limit/offset inputs; report.Window clamps to its hard maximum.
const (
	defaultListLimit  = 50
	defaultErrorLimit = 30
)

// Server wraps the MCP SDK server and the shared CDash client.
type Server struct {
	mcpServer *mcp.Server
	client    *cdash.Client
	tracer    trace.Tracer
	logger    log.Logger
}

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
	Client  *cdash.Client
	Logger  log.Logger
}

// NewServer creates the MCP server and registers all CDash tools.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("cdash client is required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		client:    cfg.Client,
		// No-op unless an OTLP provider was installed at startup.
		tracer: otel.Tracer("cdash-mcp"),
		logger: cfg.Logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Run starts the MCP server on the given transport. This is a blocking call
// that handles all protocol communication until the context is cancelled or
// the client disconnects.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.mcpServer.Run(ctx, transport)
}

// registerTools registers every CDash tool on the SDK server.
func (s *Server) registerTools() error {
	for _, register := range []func() error{
		s.registerProjectTools,
		s.registerBuildTools,
		s.registerTestTools,
	} {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

// window builds a clamped pagination window. A nil limit means the caller
// left it unset and gets the tool default; an explicit value, including 0,
// goes through the clamp (0 becomes 1, never the default).
func window(limit *int, offset, def int) report.Window {
	l := def
	if limit != nil {
		l = *limit
	}
	return report.Window{Limit: l, Offset: offset}.Clamp()
}

// textResult wraps rendered report text in an MCP result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// result logs the completed call and wraps the rendered text.
func (s *Server) result(tool string, start time.Time, text string) (*mcp.CallToolResult, any, error) {
	s.logger.Debug("tool call completed", "tool", tool, "duration", time.Since(start))
	return textResult(text), nil, nil
}

// toolError converts an upstream failure into the tool's textual error form.
// Classified CDash errors become a plain "Error: ..." text inside a normal
// result, so protocol clients never observe a failed call for them. Anything
// else propagates to the SDK as a genuine tool failure.
func (s *Server) toolError(tool string, err error) (*mcp.CallToolResult, any, error) {
	if cdash.IsCDashError(err) {
		s.logger.Warn("cdash request failed", "tool", tool, "error", err)
		return textResult(fmt.Sprintf("Error: %s", err)), nil, nil
	}
	s.logger.Error("tool failed", "tool", tool, "error", err)
	return nil, nil, err
}
