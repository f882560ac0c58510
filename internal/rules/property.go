package rules

import (
	"fmt"
	"regexp"
	"strings"

	"rpytl/internal/rpyscan"
)

// Assignment syntaxes for property rules.
const (
	SyntaxEquals = 1 // name = "value"
	SyntaxColon  = 2 // "name": "value"
	SyntaxSpace  = 3 // name "value"
)

// PropertyRule extracts string values assigned to one named property in
// script files. The pattern is compiled once at construction.
type PropertyRule struct {
	name    string
	pattern *regexp.Regexp
}

// NewPropertyRule builds a rule for one property name and assignment
// syntax. The rule's registry name is the property name itself.
func NewPropertyRule(name string, syntax int) (*PropertyRule, error) {
	if name == "" {
		return nil, fmt.Errorf("empty property name")
	}
	q := regexp.QuoteMeta(name)
	lit := `((?:f)?` + rpyscan.Literal + `)`

	var expr string
	switch syntax {
	case SyntaxEquals:
		expr = `\b` + q + `\s*=\s*` + lit
	case SyntaxColon:
		expr = `["']?\b` + q + `\b["']?\s*:\s*` + lit
	case SyntaxSpace:
		expr = `\b` + q + `\s+` + lit
	default:
		return nil, fmt.Errorf("unknown assignment syntax %d for property %q", syntax, name)
	}

	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile property pattern %q: %w", name, err)
	}
	return &PropertyRule{name: name, pattern: pattern}, nil
}

func (r *PropertyRule) Name() string { return r.name }
func (r *PropertyRule) Kind() Kind   { return KindScript }

func (r *PropertyRule) Extract(src *Source) []Candidate {
	return extractPattern(src, r.pattern)
}

// notifyPattern matches the literal argument of renpy.notify calls.
var notifyPattern = regexp.MustCompile(`renpy\.notify\s*\(\s*((?:f)?` + rpyscan.Literal + `)\s*\)`)

// NotifyRule extracts on-screen notification text passed to renpy.notify.
type NotifyRule struct{}

func (NotifyRule) Name() string { return "renpy_notify" }
func (NotifyRule) Kind() Kind   { return KindScript }

func (NotifyRule) Extract(src *Source) []Candidate {
	return extractPattern(src, notifyPattern)
}

// extractPattern collects the decoded group-1 literal of every match
// whose start is outside comments, located by the match's line.
// Whitespace-only values are dropped here, before validation.
func extractPattern(src *Source, pattern *regexp.Regexp) []Candidate {
	var out []Candidate
	for _, m := range pattern.FindAllStringSubmatchIndex(src.Content, -1) {
		if src.InComment(m[0]) {
			continue
		}
		text := rpyscan.DecodeLiteral(src.Content[m[2]:m[3]])
		if strings.TrimSpace(text) == "" {
			continue
		}
		out = append(out, Candidate{Locator: src.Line(m[0]), Text: text})
	}
	return out
}
