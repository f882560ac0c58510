package rpyscan

import (
	"regexp"
	"strings"
)

// Literal is the source pattern for one script string literal: triple-double,
// triple-single, double or single quoted, with backslash-escaped delimiters
// inside the single-line forms. Triple-quoted alternatives come first so a
// """ block is not matched as an empty "" literal.
const Literal = `(?:"""[\s\S]*?"""|'''[\s\S]*?'''|"(?:\\"|[^"])*"|'(?:\\'|[^'])*')`

var literalPattern = regexp.MustCompile(Literal)

// blockCommentPattern matches triple-quoted blocks, which Ren'Py scripts use
// as comments outside of dialogue.
var blockCommentPattern = regexp.MustCompile(`"""[\s\S]*?"""|'''[\s\S]*?'''`)

// lineCommentPattern matches # to end of line.
var lineCommentPattern = regexp.MustCompile(`(?m)#.*$`)

// Range is a byte-offset span in file content. End is the offset just past
// the span, but containment checks treat it as inclusive.
type Range struct {
	Start int
	End   int
}

// In reports whether pos falls inside the range, inclusive on both ends.
func (r Range) In(pos int) bool {
	return pos >= r.Start && pos <= r.End
}

// CommentRanges returns the byte ranges of all comments in content: the
// union of triple-quoted blocks and # line comments. Computed once per file
// and reused for every rule run.
func CommentRanges(content string) []Range {
	var ranges []Range
	for _, loc := range blockCommentPattern.FindAllStringIndex(content, -1) {
		ranges = append(ranges, Range{Start: loc[0], End: loc[1]})
	}
	for _, loc := range lineCommentPattern.FindAllStringIndex(content, -1) {
		ranges = append(ranges, Range{Start: loc[0], End: loc[1]})
	}
	return ranges
}

// InComment reports whether pos falls inside any of the given ranges.
func InComment(ranges []Range, pos int) bool {
	for _, r := range ranges {
		if r.In(pos) {
			return true
		}
	}
	return false
}

// FindLiterals returns the [start, end) offsets of every string literal in s.
func FindLiterals(s string) [][]int {
	return literalPattern.FindAllStringIndex(s, -1)
}

// LineAt returns the 1-based line number of byte offset pos in content.
func LineAt(content string, pos int) int {
	if pos > len(content) {
		pos = len(content)
	}
	return strings.Count(content[:pos], "\n") + 1
}

// DecodeLiteral strips the quoting from a raw matched literal: an optional
// f prefix, then triple delimiters before single ones. Escaped occurrences
// of the outer delimiter are unescaped; all other escape sequences pass
// through untouched. Degenerate input yields "".
func DecodeLiteral(raw string) string {
	raw = strings.TrimPrefix(raw, "f")
	switch {
	case len(raw) >= 6 && strings.HasPrefix(raw, `"""`) && strings.HasSuffix(raw, `"""`):
		return raw[3 : len(raw)-3]
	case len(raw) >= 6 && strings.HasPrefix(raw, "'''") && strings.HasSuffix(raw, "'''"):
		return raw[3 : len(raw)-3]
	case len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"':
		return strings.ReplaceAll(raw[1:len(raw)-1], `\"`, `"`)
	case len(raw) >= 2 && raw[0] == '\'' && raw[len(raw)-1] == '\'':
		return strings.ReplaceAll(raw[1:len(raw)-1], `\'`, "'")
	}
	return ""
}
