// Package timezone maps free-text timezone labels from signup forms to UTC
// offsets. Labels come from two generations of survey forms plus whatever
// participants typed by hand, so resolution is deliberately lenient: an exact
// table lookup first, then a keyword scan over well known abbreviations, and
// finally offset 0 when nothing matches.
package timezone

import "strings"

// offsets for labels used by the current signup survey.
var surveyOffsets = map[string]int{
	"Europe – Central European Time (CET)":   1,
	"Europe – Western European Time (GMT)":   0,
	"Europe – Eastern European Time (EET)":   2,
	"UK & Ireland (GMT/BST)":                 0,
	"US – Eastern Time (EST)":                -5,
	"US – Central Time (CST)":                -6,
	"US – Mountain Time (MST)":               -7,
	"US – Pacific Time (PST)":                -8,
	"Canada – Eastern Time":                  -5,
	"South America – Brasilia Time (BRT)":    -3,
	"India – India Standard Time (IST)":      5,
	"Asia – Singapore / China (SGT/CST)":     8,
	"Japan – Japan Standard Time (JST)":      9,
	"Australia (AEST)":                       10,
	"New Zealand (NZST)":                     12,
	"Middle East – Gulf Standard Time (GST)": 4,
	"Africa – Central Africa Time (CAT)":     2,
	"Africa – West Africa Time (WAT)":        1,
}

// offsets for labels observed in historical cohort imports.
var legacyOffsets = map[string]int{
	"CET (Central European Time)":  1,
	"GMT (Greenwich Mean Time)":    0,
	"EST (Eastern Standard Time)":  -5,
	"CST (Central Standard Time)":  -6,
	"PST (Pacific Standard Time)":  -8,
	"IST (India Standard Time)":    5,
	"AEST (Australian Eastern)":    10,
	"Central European Time":        1,
	"Eastern Time (US & Canada)":   -5,
	"Central Time (US & Canada)":   -6,
	"Pacific Time (US & Canada)":   -8,
	"UTC":                          0,
	"Greenwich Mean Time":          0,
	"Australian Eastern Standard":  10,
	"Singapore Standard Time":      8,
	"Japan Standard Time":          9,
	"Brasilia Standard Time":       -3,
	"Gulf Standard Time":           4,
	"India Standard Time":          5,
	"New Zealand Standard Time":    12,
	"Mountain Time (US & Canada)":  -7,
	"West Africa Standard Time":    1,
	"Central Africa Time":          2,
	"Eastern European Time":        2,
	"Western European Summer Time": 1,
}

// abbreviation keywords checked in order when no table entry matches. Longer
// and more specific tokens come first so that e.g. "CEST" is not shadowed by
// the bare "CST" scan.
var keywordOffsets = []struct {
	keyword string
	offset  int
}{
	{"CEST", 1},
	{"CET", 1},
	{"BST", 0},
	{"GMT", 0},
	{"AEDT", 10},
	{"AEST", 10},
	{"AET", 10},
	{"CDT", -6},
	{"CST", -6},
	{"CT", -6},
	{"EDT", -5},
	{"EST", -5},
	{"PDT", -8},
	{"PST", -8},
}

// OffsetHours returns the signed UTC offset for a timezone label, or 0 when
// the label cannot be resolved at all.
func OffsetHours(label string) int {
	offset, _ := ResolveOffset(label)
	return offset
}

// ResolveOffset resolves a label to a signed UTC offset. The second return
// reports whether the label actually matched anything; callers that care
// about data quality can log a diagnostic instead of silently treating the
// participant as UTC.
func ResolveOffset(label string) (int, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return 0, false
	}

	if offset, ok := surveyOffsets[label]; ok {
		return offset, true
	}
	if offset, ok := legacyOffsets[label]; ok {
		return offset, true
	}

	upper := strings.ToUpper(label)
	for _, kw := range keywordOffsets {
		if strings.Contains(upper, kw.keyword) {
			return kw.offset, true
		}
	}

	return 0, false
}

// DistanceHours returns the absolute difference in UTC offsets between two
// labels. Unresolvable labels count as offset 0.
func DistanceHours(a, b string) int {
	d := OffsetHours(a) - OffsetHours(b)
	if d < 0 {
		d = -d
	}
	return d
}
