package cdash

import (
	"net/url"
	"strconv"
)

// CDash server-side filter comparator codes. These are fixed upstream
// constants from the CDash filter system.
const (
	CompareIs       = 61
	CompareIsNot    = 62
	CompareContains = 63
)

// Filter is one (field, comparator, value) triple of the CDash filter
// sub-protocol.
type Filter struct {
	Field   string
	Compare int
	Value   string
}

// NotPassed restricts test results to any status other than "Passed".
func NotPassed() Filter {
	return Filter{Field: "status", Compare: CompareIsNot, Value: "Passed"}
}

// applyFilters encodes filters as indexed query parameters: field1/compare1/
// value1 and so on, with 1-based contiguous indices. filtercount always
// equals the number of triples, and filtercombine=and joins them.
func applyFilters(params url.Values, filters ...Filter) {
	if len(filters) == 0 {
		return
	}
	params.Set("filtercount", strconv.Itoa(len(filters)))
	params.Set("showfilters", "1")
	params.Set("filtercombine", "and")
	for i, f := range filters {
		idx := strconv.Itoa(i + 1)
		params.Set("field"+idx, f.Field)
		params.Set("compare"+idx, strconv.Itoa(f.Compare))
		params.Set("value"+idx, f.Value)
	}
}
