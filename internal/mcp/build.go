package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyrohl/cdash-mcp/internal/report"
)

// BuildDetailsInput defines the input schema for get_build_details.
type BuildDetailsInput struct {
	BuildID int64 `json:"build_id" jsonschema:"CDash build ID (from get_dashboard or get_failing_tests)"`
}

// BuildErrorsInput defines the input schema for get_build_errors.
type BuildErrorsInput struct {
	BuildID  int64 `json:"build_id" jsonschema:"CDash build ID"`
	Warnings bool  `json:"warnings,omitempty" jsonschema:"Fetch warnings instead of errors"`
	Limit    *int  `json:"limit,omitempty" jsonschema:"Maximum number of entries to return (default 30, max 200)"`
	Offset   int   `json:"offset,omitempty" jsonschema:"Number of entries to skip, for pagination (default 0)"`
}

// BuildTestsInput defines the input schema for get_build_tests.
type BuildTestsInput struct {
	BuildID      int64  `json:"build_id" jsonschema:"CDash build ID"`
	StatusFilter string `json:"status_filter,omitempty" jsonschema:"Optional status filter: passed, failed or notrun"`
	Limit        *int   `json:"limit,omitempty" jsonschema:"Maximum number of tests to return (default 50, max 200)"`
	Offset       int    `json:"offset,omitempty" jsonschema:"Number of tests to skip, for pagination (default 0)"`
}

// ConfigureOutputInput defines the input schema for get_configure_output.
type ConfigureOutputInput struct {
	BuildID int64 `json:"build_id" jsonschema:"CDash build ID"`
}

// BuildUpdateInput defines the input schema for get_build_update.
type BuildUpdateInput struct {
	BuildID int64 `json:"build_id" jsonschema:"CDash build ID"`
}

// DynamicAnalysisInput defines the input schema for get_dynamic_analysis.
type DynamicAnalysisInput struct {
	BuildID int64 `json:"build_id" jsonschema:"CDash build ID"`
	Limit   *int  `json:"limit,omitempty" jsonschema:"Maximum number of defect entries to return (default 50, max 200)"`
	Offset  int   `json:"offset,omitempty" jsonschema:"Number of defect entries to skip, for pagination (default 0)"`
}

// registerBuildTools registers the build-scoped tools: get_build_details,
// get_build_errors, get_build_tests, get_configure_output, get_build_update,
// get_dynamic_analysis.
func (s *Server) registerBuildTools() error {
	detailsSchema, err := jsonschema.For[BuildDetailsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_build_details: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_build_details",
		Description: "Get detailed summary for a specific build: configure, compile and test outcomes.",
		InputSchema: detailsSchema,
	}, s.getBuildDetails)

	errorsSchema, err := jsonschema.For[BuildErrorsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_build_errors: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_build_errors",
		Description: "Get compiler errors (or warnings) for a build, with source locations.",
		InputSchema: errorsSchema,
	}, s.getBuildErrors)

	testsSchema, err := jsonschema.For[BuildTestsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_build_tests: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_build_tests",
		Description: "Get test results for a build, optionally filtered by status.",
		InputSchema: testsSchema,
	}, s.getBuildTests)

	configureSchema, err := jsonschema.For[ConfigureOutputInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_configure_output: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_configure_output",
		Description: "Get the configure step output for a build (e.g. CMake output).",
		InputSchema: configureSchema,
	}, s.getConfigureOutput)

	updateSchema, err := jsonschema.For[BuildUpdateInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_build_update: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_build_update",
		Description: "Get source update (version control) information for a build.",
		InputSchema: updateSchema,
	}, s.getBuildUpdate)

	dynSchema, err := jsonschema.For[DynamicAnalysisInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_dynamic_analysis: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dynamic_analysis",
		Description: "Get dynamic analysis (e.g. Valgrind, sanitizer) results for a build.",
		InputSchema: dynSchema,
	}, s.getDynamicAnalysis)

	return nil
}

func (s *Server) getBuildDetails(ctx context.Context, _ *mcp.CallToolRequest, in BuildDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_build_details")
	defer span.End()
	start := time.Now()
	data, err := s.client.BuildSummary(ctx, in.BuildID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_build_details", err)
	}
	return s.result("get_build_details", start, report.BuildDetails(data, in.BuildID))
}

func (s *Server) getBuildErrors(ctx context.Context, _ *mcp.CallToolRequest, in BuildErrorsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_build_errors")
	defer span.End()
	start := time.Now()
	data, err := s.client.BuildErrors(ctx, in.BuildID, in.Warnings)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_build_errors", err)
	}
	w := window(in.Limit, in.Offset, defaultErrorLimit)
	return s.result("get_build_errors", start, report.BuildErrors(data, in.BuildID, in.Warnings, w))
}

func (s *Server) getBuildTests(ctx context.Context, _ *mcp.CallToolRequest, in BuildTestsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_build_tests")
	defer span.End()
	start := time.Now()
	data, err := s.client.BuildTests(ctx, in.BuildID, in.StatusFilter)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_build_tests", err)
	}
	w := window(in.Limit, in.Offset, defaultListLimit)
	return s.result("get_build_tests", start, report.BuildTests(data, in.BuildID, in.StatusFilter, w))
}

func (s *Server) getConfigureOutput(ctx context.Context, _ *mcp.CallToolRequest, in ConfigureOutputInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_configure_output")
	defer span.End()
	start := time.Now()
	data, err := s.client.Configure(ctx, in.BuildID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_configure_output", err)
	}
	return s.result("get_configure_output", start, report.ConfigureOutput(data, in.BuildID))
}

func (s *Server) getBuildUpdate(ctx context.Context, _ *mcp.CallToolRequest, in BuildUpdateInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_build_update")
	defer span.End()
	start := time.Now()
	data, err := s.client.BuildUpdate(ctx, in.BuildID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_build_update", err)
	}
	return s.result("get_build_update", start, report.BuildUpdate(data, in.BuildID))
}

func (s *Server) getDynamicAnalysis(ctx context.Context, _ *mcp.CallToolRequest, in DynamicAnalysisInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_dynamic_analysis")
	defer span.End()
	start := time.Now()
	data, err := s.client.DynamicAnalysis(ctx, in.BuildID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_dynamic_analysis", err)
	}
	w := window(in.Limit, in.Offset, defaultListLimit)
	return s.result("get_dynamic_analysis", start, report.DynamicAnalysis(data, in.BuildID, w))
}
