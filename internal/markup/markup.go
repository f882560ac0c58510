package markup

import (
	"regexp"
	"strings"
)

// Span is a detected markup token position in a string.
type Span struct {
	Start, End int
}

// patterns to detect engine markup and interpolation tokens in game strings.
var patterns = []*regexp.Regexp{
	regexp.MustCompile(`\{[^{}]*\}`),   // {i}, {color=#fff}, {var_name}
	regexp.MustCompile(`\[[^\[\]]*\]`), // [player_name]
}

// Spans returns all markup token spans in text, sorted by position with
// overlapping matches removed (earliest, then longest, wins).
func Spans(text string) []Span {
	var all []Span
	for _, p := range patterns {
		for _, loc := range p.FindAllStringIndex(text, -1) {
			all = append(all, Span{Start: loc[0], End: loc[1]})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sortSpans(all)

	var filtered []Span
	lastEnd := -1
	for _, s := range all {
		if s.Start >= lastEnd {
			filtered = append(filtered, s)
			lastEnd = s.End
		}
	}
	return filtered
}

// Blank replaces every markup span in text with spaces of equal length,
// so later scans see neither the token text nor shifted offsets.
func Blank(text string) string {
	spans := Spans(text)
	if len(spans) == 0 {
		return text
	}
	out := []byte(text)
	for _, s := range spans {
		copy(out[s.Start:s.End], strings.Repeat(" ", s.End-s.Start))
	}
	return string(out)
}

// sortSpans sorts by start position, then by length (descending) for overlaps.
func sortSpans(spans []Span) {
	for i := 1; i < len(spans); i++ {
		key := spans[i]
		j := i - 1
		for j >= 0 && (spans[j].Start > key.Start ||
			(spans[j].Start == key.Start && (spans[j].End-spans[j].Start) < (key.End-key.Start))) {
			spans[j+1] = spans[j]
			j--
		}
		spans[j+1] = key
	}
}
