package rules

import (
	"rpytl/internal/rpyscan"
)

// Kind classifies the file content a rule understands. Rules are still
// run against whatever files the patterns matched; a JSON rule on
// non-JSON content simply finds nothing.
type Kind int

const (
	KindScript Kind = iota
	KindJSON
)

func (k Kind) String() string {
	if k == KindJSON {
		return "json"
	}
	return "script"
}

// Sentinel locators emitted by the person-name rule. The writer uses
// them to recompose "first second" entries.
const (
	LocFirstName  = -1
	LocSecondName = -2
)

// Candidate is one extracted string. Locator is a 1-based line number
// for script rules, a nesting depth (root = 1) for JSON rules, or a
// negative sentinel for compound name parts.
type Candidate struct {
	Locator int
	Text    string
}

// Rule extracts translatable string candidates from one file's content.
// Implementations are stateless and reusable across runs.
type Rule interface {
	Name() string
	Kind() Kind
	Extract(src *Source) []Candidate
}

// Source is one input file prepared for extraction. Comment ranges are
// computed on first use and shared by every rule run on the file.
type Source struct {
	Path    string
	Content string

	commentsDone bool
	comments     []rpyscan.Range
}

// NewSource wraps decoded file content for rule runs.
func NewSource(path, content string) *Source {
	return &Source{Path: path, Content: content}
}

// Comments returns the file's comment ranges, computing them on first call.
func (s *Source) Comments() []rpyscan.Range {
	if !s.commentsDone {
		s.comments = rpyscan.CommentRanges(s.Content)
		s.commentsDone = true
	}
	return s.comments
}

// InComment reports whether pos falls inside a comment.
func (s *Source) InComment(pos int) bool {
	return rpyscan.InComment(s.Comments(), pos)
}

// Line returns the 1-based line number of byte offset pos.
func (s *Source) Line(pos int) int {
	return rpyscan.LineAt(s.Content, pos)
}
