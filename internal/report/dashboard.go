package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// dashboardCap is how many clean builds a group lists before the remainder
// is summarized. Builds with issues are always listed.
const dashboardCap = 20

// Dashboard renders the project dashboard: one section per build group, one
// line per build with its configure/compile/test counters. Clean builds past
// the cap collapse into a single "and N more" line so huge nightly groups
// stay readable; anything with an issue is always shown.
func Dashboard(data gjson.Result, project, date string) string {
	var lines []string

	title := field(data, "title", project)
	fallbackDate := date
	if fallbackDate == "" {
		fallbackDate = "today"
	}
	dashDate := field(data, "datetime", fallbackDate)
	lines = append(lines, fmt.Sprintf("# %s - Dashboard (%s)", title, dashDate), "")

	groups := data.Get("buildgroups").Array()
	if len(groups) == 0 {
		lines = append(lines, "No build groups found.")
		return strings.Join(lines, "\n")
	}

	for _, group := range groups {
		groupName := field(group, "name", "Unknown")
		builds := group.Get("builds").Array()
		lines = append(lines, fmt.Sprintf("## %s (%d builds)", groupName, len(builds)), "")

		clean := 0  // clean builds listed so far
		listed := 0 // all builds listed so far
		for _, build := range builds {
			name := field(build, "buildname", "?")
			site := field(build, "site", "?")
			buildID := field(build, "id", "?")
			configureErrors := build.Get("configure.error").Int()
			compileErrors := build.Get("compilation.error").Int()
			compileWarnings := build.Get("compilation.warning").Int()
			testFail := build.Get("test.fail").Int()
			testNotRun := build.Get("test.notrun").Int()
			testPass := build.Get("test.pass").Int()

			hasIssues := configureErrors > 0 || compileErrors > 0 || testFail > 0 || testNotRun > 0
			if !hasIssues && clean >= dashboardCap {
				continue
			}

			var statusParts []string
			if configureErrors > 0 {
				statusParts = append(statusParts, fmt.Sprintf("configure_err=%d", configureErrors))
			}
			if compileErrors > 0 {
				statusParts = append(statusParts, fmt.Sprintf("compile_err=%d", compileErrors))
			}
			if compileWarnings > 0 {
				statusParts = append(statusParts, fmt.Sprintf("warnings=%d", compileWarnings))
			}
			if testFail > 0 {
				statusParts = append(statusParts, fmt.Sprintf("test_fail=%d", testFail))
			}
			if testNotRun > 0 {
				statusParts = append(statusParts, fmt.Sprintf("test_notrun=%d", testNotRun))
			}
			if testPass > 0 {
				statusParts = append(statusParts, fmt.Sprintf("test_pass=%d", testPass))
			}

			status := "OK"
			if len(statusParts) > 0 {
				status = strings.Join(statusParts, ", ")
			}
			marker := ""
			if hasIssues {
				marker = "!!!"
			} else {
				clean++
			}
			lines = append(lines, fmt.Sprintf("- %s[id=%s] %s @ %s: %s", marker, buildID, name, site, status))
			listed++
		}

		if listed < len(builds) {
			lines = append(lines, fmt.Sprintf("  ... and %d more builds", len(builds)-listed))
		}
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

// ProjectOverview renders aggregate project statistics: build groups,
// coverage snapshots, and the analysis/measurement listings.
func ProjectOverview(data gjson.Result, project string) string {
	var lines []string

	title := field(data, "title", project+" - Overview")
	lines = append(lines, "# "+title, "")

	if data.Get("hasSubProjects").Bool() {
		lines = append(lines, "*This project has subprojects.*", "")
	}

	if groups := data.Get("groups").Array(); len(groups) > 0 {
		names := make([]string, 0, len(groups))
		for _, g := range groups {
			names = append(names, field(g, "name", "?"))
		}
		lines = append(lines, "**Build groups**: "+strings.Join(names, ", "), "")
	}

	if coverages := data.Get("coverages").Array(); len(coverages) > 0 {
		lines = append(lines, "## Coverage")
		for _, cov := range coverages {
			lines = append(lines, "### "+field(cov, "name", "?"))
			if nonEmptyObject(cov, "current") {
				lines = append(lines, "  Current: "+cov.Get("current").Raw)
			}
			if nonEmptyObject(cov, "previous") {
				lines = append(lines, "  Previous: "+cov.Get("previous").Raw)
			}
		}
		lines = append(lines, "")
	}

	lines = appendNameList(lines, data, "dynamicanalyses", "## Dynamic Analysis")
	lines = appendNameList(lines, data, "staticanalyses", "## Static Analysis")
	lines = appendNameList(lines, data, "measurements", "## Measurements")

	return strings.Join(lines, "\n")
}

// appendNameList renders a section listing the "name" of each array entry,
// skipping the section entirely when the array is absent or empty.
func appendNameList(lines []string, data gjson.Result, key, header string) []string {
	items := data.Get(key).Array()
	if len(items) == 0 {
		return lines
	}
	lines = append(lines, header)
	for _, item := range items {
		lines = append(lines, "- "+field(item, "name", "?"))
	}
	return append(lines, "")
}
