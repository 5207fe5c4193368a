package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cbyrohl/cdash-mcp/internal/report"
)

// TestDetailsInput defines the input schema for get_test_details.
type TestDetailsInput struct {
	BuildTestID int64 `json:"buildtest_id" jsonschema:"Build-test ID (from get_build_tests or get_failing_tests)"`
}

// TestSummaryInput defines the input schema for get_test_summary.
type TestSummaryInput struct {
	Project  string `json:"project" jsonschema:"CDash project name"`
	TestName string `json:"test_name" jsonschema:"Exact test name to summarize across builds"`
	Date     string `json:"date,omitempty" jsonschema:"Optional date (YYYY-MM-DD). Defaults to today."`
	Limit    *int   `json:"limit,omitempty" jsonschema:"Maximum number of builds to return (default 50, max 200)"`
	Offset   int    `json:"offset,omitempty" jsonschema:"Number of builds to skip, for pagination (default 0)"`
}

// registerTestTools registers the test-scoped tools: get_test_details and
// get_test_summary.
func (s *Server) registerTestTools() error {
	detailsSchema, err := jsonschema.For[TestDetailsInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_test_details: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_test_details",
		Description: "Get full output and measurements for a single test run.",
		InputSchema: detailsSchema,
	}, s.getTestDetails)

	summarySchema, err := jsonschema.For[TestSummaryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_test_summary: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_test_summary",
		Description: "Summarize one test's results across all builds of a project on a date.",
		InputSchema: summarySchema,
	}, s.getTestSummary)

	return nil
}

func (s *Server) getTestDetails(ctx context.Context, _ *mcp.CallToolRequest, in TestDetailsInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_test_details")
	defer span.End()
	start := time.Now()
	data, err := s.client.TestDetails(ctx, in.BuildTestID)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_test_details", err)
	}
	return s.result("get_test_details", start, report.TestDetails(data, in.BuildTestID))
}

func (s *Server) getTestSummary(ctx context.Context, _ *mcp.CallToolRequest, in TestSummaryInput) (*mcp.CallToolResult, any, error) {
	ctx, span := s.tracer.Start(ctx, "get_test_summary")
	defer span.End()
	start := time.Now()
	data, err := s.client.TestSummary(ctx, in.Project, in.TestName, in.Date)
	if err != nil {
		span.RecordError(err)
		return s.toolError("get_test_summary", err)
	}
	w := window(in.Limit, in.Offset, defaultListLimit)
	return s.result("get_test_summary", start, report.TestSummary(data, in.TestName, w))
}
