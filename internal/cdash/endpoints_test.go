package cdash

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

// recordingHandler replays canned JSON per route and records each request.
type recordingHandler struct {
	responses map[string]string // path -> JSON body
	requests  []*url.URL
}

func (h *recordingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u := *r.URL
	h.requests = append(h.requests, &u)
	body, ok := h.responses[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (h *recordingHandler) last(t *testing.T) *url.URL {
	t.Helper()
	if len(h.requests) == 0 {
		t.Fatal("no requests recorded")
	}
	return h.requests[len(h.requests)-1]
}

func TestQueryTests_NotPassedFilter(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/queryTests.php": `{"builds":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.QueryTests(context.Background(), "VTK", "", ""); err != nil {
		t.Fatalf("QueryTests error: %v", err)
	}

	q := h.last(t).Query()
	if q.Get("project") != "VTK" {
		t.Errorf("project = %q", q.Get("project"))
	}
	if q.Get("filtercount") != "1" || q.Get("field1") != "status" || q.Get("compare1") != "62" || q.Get("value1") != "Passed" {
		t.Errorf("missing not-passed filter, query: %v", q)
	}
}

func TestQueryTests_NameFilterAppended(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/queryTests.php": `{"builds":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.QueryTests(context.Background(), "VTK", "2025-01-15", "Render"); err != nil {
		t.Fatalf("QueryTests error: %v", err)
	}

	q := h.last(t).Query()
	if q.Get("date") != "2025-01-15" {
		t.Errorf("date = %q", q.Get("date"))
	}
	if q.Get("filtercount") != "2" {
		t.Errorf("filtercount = %q, want 2", q.Get("filtercount"))
	}
	if q.Get("field2") != "testname" || q.Get("compare2") != "63" || q.Get("value2") != "Render" {
		t.Errorf("missing testname contains filter, query: %v", q)
	}
	if q.Get("filtercombine") != "and" {
		t.Errorf("filtercombine = %q, want and", q.Get("filtercombine"))
	}
}

func TestBuildErrors_TypeParam(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/viewBuildError.php": `{"errors":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.BuildErrors(context.Background(), 42, false); err != nil {
		t.Fatalf("BuildErrors error: %v", err)
	}
	if q := h.last(t).Query(); q.Get("type") != "0" || q.Get("buildid") != "42" {
		t.Errorf("errors query = %v, want type=0 buildid=42", q)
	}

	if _, err := client.BuildErrors(context.Background(), 42, true); err != nil {
		t.Fatalf("BuildErrors error: %v", err)
	}
	if q := h.last(t).Query(); q.Get("type") != "1" {
		t.Errorf("warnings query = %v, want type=1", q)
	}
}

func TestBuildTests_StatusFilterCapitalized(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/viewTest.php": `{"tests":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.BuildTests(context.Background(), 7, "failed"); err != nil {
		t.Fatalf("BuildTests error: %v", err)
	}

	q := h.last(t).Query()
	if q.Get("field1") != "status" || q.Get("compare1") != "61" || q.Get("value1") != "Failed" {
		t.Errorf("status filter query = %v, want status is Failed", q)
	}
}

func TestBuildTests_NoFilter(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/viewTest.php": `{"tests":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.BuildTests(context.Background(), 7, ""); err != nil {
		t.Fatalf("BuildTests error: %v", err)
	}
	if q := h.last(t).Query(); q.Has("filtercount") {
		t.Errorf("unfiltered query must carry no filter params: %v", q)
	}
}

func TestResolveProjectID(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/index.php": `{"projectid":321}`,
	}}
	client, _ := newTestClient(t, h)

	id, err := client.ResolveProjectID(context.Background(), "VTK")
	if err != nil {
		t.Fatalf("ResolveProjectID error: %v", err)
	}
	if id != 321 {
		t.Errorf("id = %d, want 321", id)
	}
}

func TestResolveProjectID_MissingField(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/index.php": `{"buildgroups":[]}`,
	}}
	client, _ := newTestClient(t, h)

	_, err := client.ResolveProjectID(context.Background(), "NoSuchProject")
	var nfErr *NotFoundError
	if !errors.As(err, &nfErr) {
		t.Fatalf("got %T (%v), want *NotFoundError", err, err)
	}
	if !strings.Contains(nfErr.Resource, "NoSuchProject") {
		t.Errorf("error should name the project, got %q", nfErr.Resource)
	}
}

func TestTestSummary_TwoStepResolution(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/index.php":       `{"projectid":99}`,
		"/api/v1/testSummary.php": `{"builds":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.TestSummary(context.Background(), "VTK", "RenderTest", "2025-01-15"); err != nil {
		t.Fatalf("TestSummary error: %v", err)
	}

	if len(h.requests) != 2 {
		t.Fatalf("got %d requests, want 2 (resolution then query)", len(h.requests))
	}
	if h.requests[0].Path != "/api/v1/index.php" {
		t.Errorf("first request = %s, want identifier resolution", h.requests[0].Path)
	}
	q := h.requests[1].Query()
	if q.Get("project") != "99" {
		t.Errorf("project = %q, want the numeric ID", q.Get("project"))
	}
	if q.Get("name") != "RenderTest" || q.Get("date") != "2025-01-15" {
		t.Errorf("summary query = %v", q)
	}
}

func TestCoverageComparison_OptionalBuildScope(t *testing.T) {
	h := &recordingHandler{responses: map[string]string{
		"/api/v1/compareCoverage.php": `{"aaData":[]}`,
	}}
	client, _ := newTestClient(t, h)

	if _, err := client.CoverageComparison(context.Background(), "VTK", "", 0); err != nil {
		t.Fatalf("CoverageComparison error: %v", err)
	}
	if q := h.last(t).Query(); q.Has("buildid") {
		t.Errorf("zero build ID must not be forwarded: %v", q)
	}

	if _, err := client.CoverageComparison(context.Background(), "VTK", "", 55); err != nil {
		t.Fatalf("CoverageComparison error: %v", err)
	}
	if q := h.last(t).Query(); q.Get("buildid") != "55" {
		t.Errorf("buildid = %q, want 55", q.Get("buildid"))
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"failed", "Failed"},
		{"passed", "Passed"},
		{"notrun", "Notrun"},
		{"FAILED", "Failed"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
