// Package report renders CDash JSON documents as readable Markdown-ish text.
//
// Every list-producing report shares the same pagination contract: the
// requested window is clamped (limit into [1,200], offset into [0,∞)), the
// source list is sliced client-side, and the output states the total, the
// 1-based inclusive range shown, and how many items remain. Rendering is
// deterministic: the same document and window always produce byte-identical
// text.
//
// Free-text fields are truncated at fixed per-field budgets so a single noisy
// test log cannot blow out an agent's context window.
package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// MaxLimit is the largest page size a caller can request.
const MaxLimit = 200

// Window is the (limit, offset) pair controlling which slice of a result
// list is rendered.
type Window struct {
	Limit  int
	Offset int
}

// Clamp returns the effective window: limit in [1, MaxLimit], offset >= 0.
func (w Window) Clamp() Window {
	if w.Limit < 1 {
		w.Limit = 1
	}
	if w.Limit > MaxLimit {
		w.Limit = MaxLimit
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}

// bounds computes the half-open slice range for a list of the given length.
// An offset at or past the end yields an empty range.
func (w Window) bounds(total int) (start, end int) {
	if w.Offset >= total {
		return 0, 0
	}
	end = w.Offset + w.Limit
	if end > total {
		end = total
	}
	return w.Offset, end
}

// page slices a gjson array according to the window.
func (w Window) page(items []gjson.Result) []gjson.Result {
	start, end := w.bounds(len(items))
	return items[start:end]
}

// next is the offset a caller passes to fetch the following page.
func (w Window) next() int {
	return w.Offset + w.Limit
}

// field reads a string field with a fallback for absent values. Numeric
// values render in their JSON form, matching how CDash mixes types.
func field(doc gjson.Result, path, fallback string) string {
	v := doc.Get(path)
	if !v.Exists() {
		return fallback
	}
	return v.String()
}

// nonEmptyObject reports whether doc has an object with at least one key at
// path. CDash omits sections by sending {} as often as by omitting the key.
func nonEmptyObject(doc gjson.Result, path string) bool {
	v := doc.Get(path)
	return v.IsObject() && len(v.Map()) > 0
}

// Truncate cuts s to at most max characters, appending an ellipsis marker
// when anything was dropped. Counting is by rune so multibyte output is
// never split mid-character.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// truncateOutput is the long-form variant used for configure logs and test
// output, where the marker names the budget.
func truncateOutput(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return fmt.Sprintf("%s\n... (truncated, showing first %d chars)", string(runes[:max]), max)
}

// statusIcon maps a test status to its single-character marker.
func statusIcon(status string) string {
	switch status {
	case "Passed":
		return "+"
	case "Failed":
		return "!"
	case "Not Run":
		return "-"
	default:
		return "?"
	}
}

// tagPattern strips embedded HTML from coverage table cells; that endpoint
// returns markup inside otherwise-plain values.
var tagPattern = regexp.MustCompile(`<[^>]+>`)

func stripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}

// shortRev trims a VCS revision to the customary 12 characters.
func shortRev(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// moreTrailer names the remaining count and the offset for the next page.
func moreTrailer(remaining int, nextOffset int) string {
	return fmt.Sprintf("... %d more (use offset=%d to see next page)", remaining, nextOffset)
}
