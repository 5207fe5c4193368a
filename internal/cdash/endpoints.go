package cdash

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// One method per upstream report. Each method's sole responsibility is
// assembling the correct route and query parameters; all transport behavior
// lives in Get. Date strings pass through verbatim; CDash interprets them.

// Dashboard fetches the main dashboard for a project (build groups with
// pass/fail/error counts).
func (c *Client) Dashboard(ctx context.Context, project, date string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}
	return c.Get(ctx, "/api/v1/index.php", params)
}

// QueryTests queries non-passing tests across all builds for a project,
// optionally narrowed to test names containing testName.
func (c *Client) QueryTests(ctx context.Context, project, date, testName string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}

	filters := []Filter{NotPassed()}
	if testName != "" {
		filters = append(filters, Filter{Field: "testname", Compare: CompareContains, Value: testName})
	}
	applyFilters(params, filters...)

	return c.Get(ctx, "/api/v1/queryTests.php", params)
}

// BuildSummary fetches the detailed summary for a build.
func (c *Client) BuildSummary(ctx context.Context, buildID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	return c.Get(ctx, "/api/v1/buildSummary.php", params)
}

// BuildErrors fetches compiler errors for a build, or warnings when
// warnings is true.
func (c *Client) BuildErrors(ctx context.Context, buildID int64, warnings bool) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	if warnings {
		params.Set("type", "1")
	} else {
		params.Set("type", "0")
	}
	return c.Get(ctx, "/api/v1/viewBuildError.php", params)
}

// BuildTests fetches all tests for a build. statusFilter may be "passed",
// "failed", or "notrun"; it is encoded as a server-side equality filter with
// the capitalized status value.
func (c *Client) BuildTests(ctx context.Context, buildID int64, statusFilter string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	if statusFilter != "" {
		applyFilters(params, Filter{
			Field:   "status",
			Compare: CompareIs,
			Value:   capitalize(statusFilter),
		})
	}
	return c.Get(ctx, "/api/v1/viewTest.php", params)
}

// Configure fetches the CMake configure command and output for a build.
func (c *Client) Configure(ctx context.Context, buildID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	return c.Get(ctx, "/api/v1/viewConfigure.php", params)
}

// TestDetails fetches the full output for a single test run.
func (c *Client) TestDetails(ctx context.Context, buildTestID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildtestid", strconv.FormatInt(buildTestID, 10))
	return c.Get(ctx, "/api/v1/testDetails.php", params)
}

// ResolveProjectID resolves a project display name to its numeric CDash
// identifier by reading the projectid field of the project's dashboard. A
// missing field means the project does not exist (or is not visible with the
// current credentials) and yields a NotFoundError naming the project.
func (c *Client) ResolveProjectID(ctx context.Context, project string) (int64, error) {
	data, err := c.Dashboard(ctx, project, "")
	if err != nil {
		return 0, err
	}
	id := data.Get("projectid")
	if !id.Exists() || id.Int() == 0 {
		return 0, &NotFoundError{Resource: fmt.Sprintf("project %q", project)}
	}
	return id.Int(), nil
}

// TestSummary fetches the cross-build history of a single test. The
// testSummary route wants the numeric project ID, so this is the one
// operation that issues two upstream requests: identifier resolution first,
// then the dependent query.
func (c *Client) TestSummary(ctx context.Context, project, testName, date string) (gjson.Result, error) {
	projectID, err := c.ResolveProjectID(ctx, project)
	if err != nil {
		return gjson.Result{}, err
	}

	params := url.Values{}
	params.Set("project", strconv.FormatInt(projectID, 10))
	params.Set("name", testName)
	if date != "" {
		params.Set("date", date)
	}
	return c.Get(ctx, "/api/v1/testSummary.php", params)
}

// BuildUpdate fetches the VCS changes associated with a build.
func (c *Client) BuildUpdate(ctx context.Context, buildID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	return c.Get(ctx, "/api/v1/viewUpdate.php", params)
}

// ProjectOverview fetches aggregate build/test/coverage statistics for a
// project.
func (c *Client) ProjectOverview(ctx context.Context, project, date string) (gjson.Result, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}
	return c.Get(ctx, "/api/v1/overview.php", params)
}

// CoverageComparison fetches the cross-build coverage comparison for a
// project. When buildID is non-zero the comparison is scoped to that build,
// which is the reliable path for non-Nightly builds.
func (c *Client) CoverageComparison(ctx context.Context, project, date string, buildID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("project", project)
	if date != "" {
		params.Set("date", date)
	}
	if buildID != 0 {
		params.Set("buildid", strconv.FormatInt(buildID, 10))
	}
	return c.Get(ctx, "/api/v1/compareCoverage.php", params)
}

// DynamicAnalysis fetches dynamic analysis results (Valgrind, sanitizers)
// for a build.
func (c *Client) DynamicAnalysis(ctx context.Context, buildID int64) (gjson.Result, error) {
	params := url.Values{}
	params.Set("buildid", strconv.FormatInt(buildID, 10))
	return c.Get(ctx, "/api/v1/viewDynamicAnalysis.php", params)
}

// capitalize uppercases the first letter only: "failed" becomes "Failed",
// matching the status values CDash stores.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
