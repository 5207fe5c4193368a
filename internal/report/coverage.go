package report

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// CoverageComparison renders the cross-build coverage table. CDash serves
// this endpoint in DataTables form: counts in iTotalRecords /
// iTotalDisplayRecords and rows as positional arrays under aaData, with HTML
// markup embedded in the cell values.
func CoverageComparison(data gjson.Result, project string, w Window) string {
	w = w.Clamp()

	lines := []string{fmt.Sprintf("# Coverage Comparison — %s", project), ""}

	totalRecords := data.Get("iTotalRecords").Int()
	totalDisplay := data.Get("iTotalDisplayRecords").Int()
	lines = append(lines, fmt.Sprintf("**Total files**: %d", totalRecords))
	if totalDisplay != totalRecords {
		lines = append(lines, fmt.Sprintf("**Displayed**: %d", totalDisplay))
	}
	lines = append(lines, "")

	rows := data.Get("aaData").Array()
	if len(rows) == 0 {
		lines = append(lines, "No coverage data found.")
		return strings.Join(lines, "\n")
	}

	total := len(rows)
	page := w.page(rows)

	if len(page) == 0 {
		lines = append(lines, fmt.Sprintf("## Files (%d total) — no results in this range (offset=%d).", total, w.Offset))
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("## Files (%d total, showing %d–%d)", total, w.Offset+1, w.Offset+len(page)), "")

	for _, row := range page {
		cells := row.Array()
		if len(cells) < 4 {
			lines = append(lines, "- "+row.Raw)
			continue
		}
		lines = append(lines, fmt.Sprintf("- `%s`: %s (%s) — %s",
			stripTags(cells[0].String()),
			stripTags(cells[1].String()),
			stripTags(cells[2].String()),
			stripTags(cells[3].String())))
	}

	if remaining := total - w.Offset - len(page); remaining > 0 {
		lines = append(lines, "\n"+moreTrailer(remaining, w.next()))
	}

	return strings.Join(lines, "\n")
}

// DynamicAnalysis renders Valgrind/sanitizer results for a build. Tests
// carrying defects are listed (and paginated) first; clean tests collapse
// into a single count.
func DynamicAnalysis(data gjson.Result, buildID int64, w Window) string {
	w = w.Clamp()

	title := data.Get("title").String()
	if title == "" {
		title = fmt.Sprintf("Dynamic Analysis (build_id=%d)", buildID)
	}
	lines := []string{"# " + title, ""}

	if nonEmptyObject(data, "build") {
		build := data.Get("build")
		lines = append(lines,
			"**Build**: "+field(build, "buildname", "?"),
			"**Site**: "+field(build, "site", "?"),
			"**Time**: "+field(build, "buildtime", "?"),
			"")
	}

	if defectTypes := data.Get("defecttypes").Array(); len(defectTypes) > 0 {
		names := make([]string, 0, len(defectTypes))
		for _, d := range defectTypes {
			names = append(names, field(d, "type", "?"))
		}
		lines = append(lines, "**Defect types**: "+strings.Join(names, ", "), "")
	}

	analyses := data.Get("dynamicanalyses").Array()
	if len(analyses) == 0 {
		lines = append(lines, "No dynamic analysis results found.")
		return strings.Join(lines, "\n")
	}

	lines = append(lines, fmt.Sprintf("## Results (%d tests)", len(analyses)), "")

	type defective struct {
		name    string
		status  string
		defects int64
	}
	var withDefects []defective
	clean := 0
	for _, a := range analyses {
		var totalDefects int64
		for _, d := range a.Get("defects").Array() {
			totalDefects += d.Int()
		}
		if totalDefects > 0 {
			withDefects = append(withDefects, defective{
				name:    field(a, "name", "?"),
				status:  field(a, "status", "?"),
				defects: totalDefects,
			})
		} else {
			clean++
		}
	}

	total := len(withDefects)
	start, end := w.bounds(total)
	page := withDefects[start:end]

	if len(page) == 0 && total > 0 {
		lines = append(lines, fmt.Sprintf("%d test(s) with defects — no results in this range (offset=%d).", total, w.Offset))
	} else if len(page) > 0 {
		lines = append(lines, fmt.Sprintf("Showing defects %d–%d of %d:", w.Offset+1, w.Offset+len(page), total), "")
		for _, d := range page {
			lines = append(lines, fmt.Sprintf("- **%s** [%s] — %d defect(s)", d.name, d.status, d.defects))
		}
		if remaining := total - w.Offset - len(page); remaining > 0 {
			lines = append(lines, fmt.Sprintf("\n... %d more with defects (use offset=%d to see next page)", remaining, w.next()))
		}
	}

	if clean > 0 {
		lines = append(lines, fmt.Sprintf("\n%d test(s) with no defects (clean)", clean))
	}

	return strings.Join(lines, "\n")
}
