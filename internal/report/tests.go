package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// FailingTests renders the cross-build non-passing test query. CDash returns
// the per-test rows under a "builds" key.
func FailingTests(data gjson.Result, project string, w Window) string {
	w = w.Clamp()

	lines := []string{fmt.Sprintf("# Failing Tests for %s", project), ""}

	tests := data.Get("builds").Array()
	if len(tests) == 0 {
		lines = append(lines, "No failing tests found.")
		return strings.Join(lines, "\n")
	}

	total := len(tests)
	page := w.page(tests)

	if len(page) == 0 {
		lines = append(lines, fmt.Sprintf(
			"Found %d non-passing test result(s) — no results in this range (offset=%d).", total, w.Offset))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf(
		"Found %d non-passing test result(s) (showing %d–%d):", total, w.Offset+1, w.Offset+len(page)), "")

	for _, t := range page {
		lines = append(lines, fmt.Sprintf("- **%s** [%s]", field(t, "testname", "?"), field(t, "status", "?")))
		lines = append(lines, fmt.Sprintf("  Build: %s @ %s (build_id=%s)",
			field(t, "buildName", "?"), field(t, "site", "?"), field(t, "buildid", "?")))
		if details := t.Get("details").String(); details != "" {
			lines = append(lines, "  Details: "+Truncate(details, 200))
		}
		lines = append(lines, "")
	}

	if remaining := total - w.Offset - len(page); remaining > 0 {
		lines = append(lines, moreTrailer(remaining, w.next()))
	}

	return strings.Join(lines, "\n")
}

// BuildTests renders the test list of one build, one line per test with a
// status icon.
func BuildTests(data gjson.Result, buildID int64, statusFilter string, w Window) string {
	w = w.Clamp()

	filterLabel := ""
	if statusFilter != "" {
		filterLabel = fmt.Sprintf(" (%s)", statusFilter)
	}
	lines := []string{fmt.Sprintf("# Tests for build %d%s", buildID, filterLabel), ""}

	tests := data.Get("tests").Array()
	if len(tests) == 0 {
		lines = append(lines, "No tests found.")
		return strings.Join(lines, "\n")
	}

	total := len(tests)
	page := w.page(tests)

	if len(page) == 0 {
		lines = append(lines, fmt.Sprintf(
			"Found %d test(s) — no results in this range (offset=%d).", total, w.Offset))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("Found %d test(s) (showing %d–%d):", total, w.Offset+1, w.Offset+len(page)), "")

	for _, t := range page {
		status := field(t, "status", "?")
		line := fmt.Sprintf("- [%s] **%s** (%s, %ss)",
			statusIcon(status), field(t, "name", "?"), status, field(t, "execTime", "?"))
		if id := t.Get("buildtestid").String(); id != "" {
			line += fmt.Sprintf(" [buildtestid=%s]", id)
		}
		if details := t.Get("details").String(); details != "" {
			line += " — " + Truncate(details, 150)
		}
		lines = append(lines, line)
	}

	if remaining := total - w.Offset - len(page); remaining > 0 {
		lines = append(lines, "\n"+moreTrailer(remaining, w.next()))
	}

	return strings.Join(lines, "\n")
}

// TestDetails renders the full record of a single test run, including its
// measurements and (budgeted) output.
func TestDetails(data gjson.Result, buildTestID int64) string {
	var lines []string

	test := data.Get("test")
	name := test.Get("test").String()
	if name == "" {
		name = field(test, "name", "?")
	}

	lines = append(lines,
		"# Test Details: "+name,
		"**Status**: "+field(test, "status", "?"),
		fmt.Sprintf("**Build-Test ID**: %d", buildTestID),
		"")

	if command := test.Get("command").String(); command != "" {
		lines = append(lines, "**Command**:", fmt.Sprintf("```\n%s\n```", command), "")
	}

	if measurements := test.Get("measurements").Array(); len(measurements) > 0 {
		lines = append(lines, "## Measurements")
		for _, m := range measurements {
			lines = append(lines, fmt.Sprintf("- **%s**: %s", field(m, "name", "?"), field(m, "value", "?")))
		}
		lines = append(lines, "")
	}

	if output := test.Get("output").String(); output != "" {
		lines = append(lines, "## Output", fmt.Sprintf("```\n%s\n```", truncateOutput(output, 8000)))
	}

	return strings.Join(lines, "\n")
}

// TestSummary renders one test's history across builds: the aggregate pass
// ratio, then one icon line per build.
func TestSummary(data gjson.Result, testName string, w Window) string {
	w = w.Clamp()

	lines := []string{"# Test Summary: " + testName, ""}

	numFailed := data.Get("numfailed").Int()
	numTotal := data.Get("numtotal").Int()
	pctPassed := data.Get("percentagepassed").Float()
	lines = append(lines, fmt.Sprintf("**Results**: %d/%d passed (%.1f%%)", numTotal-numFailed, numTotal, pctPassed), "")

	builds := data.Get("builds").Array()
	if len(builds) == 0 {
		lines = append(lines, "No build results found.")
		return strings.Join(lines, "\n")
	}

	total := len(builds)
	page := w.page(builds)

	if len(page) == 0 {
		lines = append(lines, fmt.Sprintf(
			"Results across %d build(s) — no results in this range (offset=%d).", total, w.Offset))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf(
		"## Results across %d build(s) (showing %d–%d):", total, w.Offset+1, w.Offset+len(page)), "")

	for _, b := range page {
		status := field(b, "status", "?")
		line := fmt.Sprintf("- [%s] **%s** — %s @ %s (build_id=%s, time=%ss)",
			statusIcon(status), status, field(b, "buildName", "?"), field(b, "site", "?"),
			field(b, "buildid", "?"), field(b, "time", "?"))
		if rev := b.Get("update.revision").String(); rev != "" {
			line += " rev=" + shortRev(rev)
		}
		lines = append(lines, line)
	}

	if remaining := total - w.Offset - len(page); remaining > 0 {
		lines = append(lines, "\n"+moreTrailer(remaining, w.next()))
	}

	return strings.Join(lines, "\n")
}
