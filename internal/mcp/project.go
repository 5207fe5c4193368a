package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyrohl/cdash-mcp/internal/report"
)

// DashboardInput defines the input schema for get_dashboard.
type DashboardInput struct {
	Project string `json:"project" jsonschema:"CDash project name (e.g. PublicDashboard)"`
	Date    string `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD). Defaults to today."`
}

// FailingTestsInput defines the input schema for get_failing_tests.
type FailingTestsInput struct {
	Project  string `json:"project" jsonschema:"CDash project name"`
	Date     string `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD). Defaults to today."`
	TestName string `json:"test_name,omitempty" jsonschema:"Optional filter matching test names containing this string"`
	Limit    *int   `json:"limit,omitempty" jsonschema:"Maximum number of tests to return (default 50, max 200)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Number of tests to skip, for pagination (default 0)"`
}

// ProjectOverviewInput defines the input schema for get_project_overview.
type ProjectOverviewInput struct {
	Project string `json:"project" jsonschema:"CDash project name"`
	Date    string `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD). Defaults to today."`
}

// CoverageComparisonInput defines the input schema for get_coverage_comparison.
type CoverageComparisonInput struct {
	Project string `json:"project" jsonschema:"CDash project name"`
	Date    string `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD). Defaults to today."`
	BuildID int64  `json:"build_id,omitempty" jsonschema:"Optional build ID for reliable single-build coverage; without it the cross-build comparison only works for Nightly builds"`
	Limit   *int   `json:"limit,omitempty" jsonschema:"Maximum number of files to return (default 50, max 200)"`
	Offset  int    `json:"offset,omitempty" jsonschema:"Number of files to skip, for pagination (default 0)"`
}

// registerProjectTools registers the project-scoped tools:
// get_dashboard, get_failing_tests, get_project_overview,
// get_coverage_comparison.
func (s *Server) registerProjectTools() error {
	dashSchema, err := jsonschema.For[DashboardInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_dashboard: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Get the CDash dashboard for a project, showing build groups and status.",
		InputSchema: dashSchema,
	}, s.getDashboard)

	failingSchema, err := jsonschema.For[FailingTestsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_failing_tests: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_failing_tests",
		Description: "Find non-passing tests across all builds for a project. Most useful for CI triage.",
		InputSchema: failingSchema,
	}, s.getFailingTests)

	overviewSchema, err := jsonschema.For[ProjectOverviewInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_project_overview: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_project_overview",
		Description: "Get project overview with aggregate build/test/coverage statistics.",
		InputSchema: overviewSchema,
	}, s.getProjectOverview)

	coverageSchema, err := jsonschema.For[CoverageComparisonInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_coverage_comparison: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_coverage_comparison",
		Description: "Compare code coverage across builds for a project. Useful for detecting coverage regressions.",
		InputSchema: coverageSchema,
	}, s.getCoverageComparison)

	return nil
}

func (s *Server) getDashboard(ctx context.Context, _ *mcp.CallToolRequest, in DashboardInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_dashboard")
	defer span.End()
	start := time.Now()
	data, err := s.client.Dashboard(ctx, in.Project, in.Date)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_dashboard", err)
	}
	return s.result("get_dashboard", start, report.Dashboard(data, in.Project, in.Date))
}

func (s *Server) getFailingTests(ctx context.Context, _ *mcp.CallToolRequest, in FailingTestsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_failing_tests")
	defer span.End()
	start := time.Now()
	data, err := s.client.QueryTests(ctx, in.Project, in.Date, in.TestName)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_failing_tests", err)
	}
	w := window(in.Limit, in.Offset, defaultListLimit)
	return s.result("get_failing_tests", start, report.FailingTests(data, in.Project, w))
}

func (s *Server) getProjectOverview(ctx context.Context, _ *mcp.CallToolRequest, in ProjectOverviewInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_project_overview")
	defer span.End()
	start := time.Now()
	data, err := s.client.ProjectOverview(ctx, in.Project, in.Date)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_project_overview", err)
	}
	return s.result("get_project_overview", start, report.ProjectOverview(data, in.Project))
}

func (s *Server) getCoverageComparison(ctx context.Context, _ *mcp.CallToolRequest, in CoverageComparisonInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_coverage_comparison")
	defer span.End()
	start := time.Now()
	data, err := s.client.CoverageComparison(ctx, in.Project, in.Date, in.BuildID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_coverage_comparison", err)
	}
	w := window(in.Limit, in.Offset, defaultListLimit)
	return s.result("get_coverage_comparison", start, report.CoverageComparison(data, in.Project, w))
}
