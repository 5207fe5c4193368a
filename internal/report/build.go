package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// BuildDetails renders the summary of one build: identity, configure and
// test counters, the previous build, and whether sources changed.
func BuildDetails(data gjson.Result, buildID int64) string {
	var lines []string

	build := data.Get("build")
	lines = append(lines,
		"# Build: "+field(build, "name", "?"),
		"**Site**: "+field(build, "site", "?")+"  ",
		"**Type**: "+field(build, "type", "?")+"  ",
		"**Started**: "+field(build, "starttime", "?")+"  ",
		fmt.Sprintf("**Build ID**: %d", buildID),
		"")

	if nonEmptyObject(data, "configure") {
		confErrors := data.Get("configure.nerrors").Int()
		confWarnings := data.Get("configure.nwarnings").Int()
		confStatus := "PASS"
		if confErrors != 0 {
			confStatus = "FAIL"
		}
		lines = append(lines, fmt.Sprintf("## Configure: %s (%d errors, %d warnings)", confStatus, confErrors, confWarnings), "")
	}

	if nonEmptyObject(data, "test") {
		lines = append(lines, fmt.Sprintf("## Tests: %d passed, %d failed, %d not run",
			data.Get("test.pass").Int(), data.Get("test.fail").Int(), data.Get("test.notrun").Int()), "")
	}

	if prevID := data.Get("previousbuild.id"); prevID.Exists() && prevID.Int() != 0 {
		lines = append(lines, fmt.Sprintf("## Previous build: id=%s", prevID.String()), "")
	}

	if nFiles := data.Get("update.files").Int(); nFiles > 0 {
		lines = append(lines, fmt.Sprintf("## Source changes: %d file(s) updated", nFiles), "")
	}

	return strings.Join(lines, "\n")
}

// BuildErrors renders compiler errors (or warnings) with source locations
// and their surrounding context.
func BuildErrors(data gjson.Result, buildID int64, warnings bool, w Window) string {
	w = w.Clamp()

	label := "Errors"
	if warnings {
		label = "Warnings"
	}
	lower := strings.ToLower(label)

	lines := []string{fmt.Sprintf("# Build %s (build_id=%d)", label, buildID), ""}

	errs := data.Get("errors").Array()
	if len(errs) == 0 {
		lines = append(lines, fmt.Sprintf("No %s found.", lower))
		return strings.Join(lines, "\n")
	}

	total := len(errs)
	page := w.page(errs)

	if len(page) == 0 {
		lines = append(lines, fmt.Sprintf("Found %d %s — no results in this range (offset=%d).", total, lower, w.Offset))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("Found %d %s (showing %d–%d):", total, lower, w.Offset+1, w.Offset+len(page)), "")

	for _, e := range page {
		sourceFile := e.Get("sourcefile").String()
		sourceLine := e.Get("sourceline").String()

		switch {
		case sourceFile != "" && sourceLine != "":
			lines = append(lines, fmt.Sprintf("### %s:%s", sourceFile, sourceLine))
		case sourceFile != "":
			lines = append(lines, "### "+sourceFile)
		default:
			lines = append(lines, "### (no source location)")
		}

		if pre := e.Get("precontext").String(); pre != "" {
			lines = append(lines, fmt.Sprintf("```\n%s\n```", pre))
		}
		if text := strings.TrimSpace(e.Get("text").String()); text != "" {
			lines = append(lines, fmt.Sprintf("```\n%s\n```", Truncate(text, 500)))
		}
		if post := e.Get("postcontext").String(); post != "" {
			lines = append(lines, fmt.Sprintf("```\n%s\n```", post))
		}
		lines = append(lines, "")
	}

	if remaining := total - w.Offset - len(page); remaining > 0 {
		lines = append(lines, moreTrailer(remaining, w.next()))
	}

	return strings.Join(lines, "\n")
}

// ConfigureOutput renders the CMake configure command and its captured
// output for a build.
func ConfigureOutput(data gjson.Result, buildID int64) string {
	lines := []string{fmt.Sprintf("# Configure Output (build_id=%d)", buildID), ""}

	configures := data.Get("configures").Array()
	if len(configures) == 0 {
		lines = append(lines, "No configure output found.")
		return strings.Join(lines, "\n")
	}

	for _, conf := range configures {
		status := field(conf, "status", "?")
		statusLabel := fmt.Sprintf("FAIL (status=%s)", status)
		if status == "0" {
			statusLabel = "PASS"
		}
		lines = append(lines, "**Status**: "+statusLabel, "")

		if command := conf.Get("command").String(); command != "" {
			lines = append(lines, "**Command**:", fmt.Sprintf("```\n%s\n```", command), "")
		}
		if output := conf.Get("output").String(); output != "" {
			lines = append(lines, "**Output**:", fmt.Sprintf("```\n%s\n```", truncateOutput(output, 5000)))
		}
	}

	return strings.Join(lines, "\n")
}

// BuildUpdate renders the VCS changes associated with a build, grouped the
// way CDash groups them (update group, then directory).
func BuildUpdate(data gjson.Result, buildID int64) string {
	lines := []string{fmt.Sprintf("# Source Updates (build_id=%d)", buildID), ""}

	if nonEmptyObject(data, "update") {
		update := data.Get("update")
		if revision := update.Get("revision").String(); revision != "" {
			lines = append(lines, "**Revision**: "+revision)
		}
		if prior := update.Get("priorrevision").String(); prior != "" {
			lines = append(lines, "**Prior revision**: "+prior)
		}
		if diffURL := update.Get("revisiondiff").String(); diffURL != "" {
			lines = append(lines, "**Diff URL**: "+diffURL)
		}
		lines = append(lines, "")
	}

	updateGroups := data.Get("updategroups").Array()
	if len(updateGroups) == 0 {
		lines = append(lines, "No source changes found.")
		return strings.Join(lines, "\n")
	}

	totalFiles := 0
	for _, group := range updateGroups {
		directories := group.Get("directories").Array()
		if len(directories) == 0 {
			continue
		}

		lines = append(lines, "## "+field(group, "description", "Files"), "")

		for _, d := range directories {
			dirName := field(d, "name", ".")
			for _, f := range d.Get("files").Array() {
				filename := field(f, "filename", "?")
				path := filename
				if dirName != "." {
					path = dirName + "/" + filename
				}

				line := fmt.Sprintf("- `%s` by **%s**", path, field(f, "author", "?"))
				if revision := f.Get("revision").String(); revision != "" {
					line += fmt.Sprintf(" (%s)", shortRev(revision))
				}
				lines = append(lines, line)

				if logMsg := strings.TrimSpace(f.Get("log").String()); logMsg != "" {
					lines = append(lines, "  "+Truncate(logMsg, 200))
				}
				totalFiles++
			}
		}
		lines = append(lines, "")
	}

	if totalFiles == 0 {
		lines = append(lines, "No source changes found.")
	}

	return strings.Join(lines, "\n")
}
