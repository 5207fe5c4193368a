package report

import (
	"strings"
	"testing"
)

func TestWindowClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Window
		want Window
	}{
		{"in range", Window{Limit: 50, Offset: 10}, Window{Limit: 50, Offset: 10}},
		{"zero limit becomes one", Window{Limit: 0, Offset: 0}, Window{Limit: 1, Offset: 0}},
		{"negative limit becomes one", Window{Limit: -5, Offset: 0}, Window{Limit: 1, Offset: 0}},
		{"limit capped at 200", Window{Limit: 1000, Offset: 0}, Window{Limit: 200, Offset: 0}},
		{"limit exactly 200 unchanged", Window{Limit: 200, Offset: 0}, Window{Limit: 200, Offset: 0}},
		{"negative offset becomes zero", Window{Limit: 10, Offset: -3}, Window{Limit: 10, Offset: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWindowBounds(t *testing.T) {
	tests := []struct {
		name      string
		w         Window
		total     int
		wantStart int
		wantEnd   int
	}{
		{"full first page", Window{Limit: 10, Offset: 0}, 5, 0, 5},
		{"middle page", Window{Limit: 2, Offset: 2}, 5, 2, 4},
		{"offset at end", Window{Limit: 2, Offset: 5}, 5, 0, 0},
		{"offset past end", Window{Limit: 2, Offset: 100}, 5, 0, 0},
		{"empty list", Window{Limit: 10, Offset: 0}, 0, 0, 0},
		{"exact fit", Window{Limit: 5, Offset: 0}, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.w.bounds(tt.total)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("bounds(%d) = (%d, %d), want (%d, %d)", tt.total, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Truncate(long, 200)
	if len(got) != 203 {
		t.Errorf("len = %d, want 200 chars plus ellipsis", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text must end with the ellipsis marker: %q", got[190:])
	}

	short := strings.Repeat("y", 150)
	if Truncate(short, 200) != short {
		t.Error("text within budget must be unchanged")
	}

	exact := strings.Repeat("z", 200)
	if Truncate(exact, 200) != exact {
		t.Error("text exactly at budget must be unchanged")
	}
}

func TestTruncate_MultibyteSafe(t *testing.T) {
	s := strings.Repeat("é", 10)
	got := Truncate(s, 5)
	if got != strings.Repeat("é", 5)+"..." {
		t.Errorf("Truncate counted bytes, not runes: %q", got)
	}
}

func TestTruncateOutput(t *testing.T) {
	long := strings.Repeat("a", 6000)
	got := truncateOutput(long, 5000)
	if !strings.HasSuffix(got, "... (truncated, showing first 5000 chars)") {
		t.Errorf("long-form marker missing: %q", got[len(got)-60:])
	}
	if got[:5000] != long[:5000] {
		t.Error("truncated prefix must be the first 5000 chars")
	}

	if truncateOutput("short", 5000) != "short" {
		t.Error("output within budget must be unchanged")
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"Passed", "+"},
		{"Failed", "!"},
		{"Not Run", "-"},
		{"Timeout", "?"},
		{"", "?"},
	}
	for _, tt := range tests {
		if got := statusIcon(tt.status); got != tt.want {
			t.Errorf("statusIcon(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStripTags(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`<a href="x">file.c</a>`, "file.c"},
		{"plain", "plain"},
		{"  <b>85%</b> ", "85%"},
		{"<span class='ok'>74.2</span><br/>", "74.2"},
	}
	for _, tt := range tests {
		if got := stripTags(tt.in); got != tt.want {
			t.Errorf("stripTags(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
