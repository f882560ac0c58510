package rules

import (
	"encoding/json"
	"regexp"
	"sort"
	"strings"
)

// jsonLineComment strips // comments, which some game data files carry
// even though strict JSON forbids them.
var jsonLineComment = regexp.MustCompile(`(?m)//.*$`)

func parseJSON(content string) (any, bool) {
	cleaned := jsonLineComment.ReplaceAllString(content, "")
	var root any
	if err := json.Unmarshal([]byte(cleaned), &root); err != nil {
		return nil, false
	}
	return root, true
}

// walkObjects visits every JSON object in the tree with its nesting
// depth (root = 1). Object keys are visited in sorted order so runs are
// deterministic.
func walkObjects(node any, depth int, visit func(obj map[string]any, depth int)) {
	switch n := node.(type) {
	case map[string]any:
		visit(n, depth)
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walkObjects(n[k], depth+1, visit)
		}
	case []any:
		for _, item := range n {
			walkObjects(item, depth+1, visit)
		}
	}
}

// JSONFieldRule extracts the string value of one field from every object
// in a JSON document. Locators carry the nesting depth rather than a
// line number; field-oriented records have no meaningful source line.
type JSONFieldRule struct {
	field string
}

// NewJSONFieldRule builds a rule for one field name, registered as
// "json_<field>".
func NewJSONFieldRule(field string) *JSONFieldRule {
	return &JSONFieldRule{field: field}
}

func (r *JSONFieldRule) Name() string { return "json_" + r.field }
func (r *JSONFieldRule) Kind() Kind   { return KindJSON }

func (r *JSONFieldRule) Extract(src *Source) []Candidate {
	root, ok := parseJSON(src.Content)
	if !ok {
		return nil
	}
	var out []Candidate
	walkObjects(root, 1, func(obj map[string]any, depth int) {
		if v, ok := obj[r.field].(string); ok && strings.TrimSpace(v) != "" {
			out = append(out, Candidate{Locator: depth, Text: v})
		}
	})
	return out
}

// PersonNameRule extracts first_name/last_name pairs from JSON objects,
// tagging the parts with the sentinel locators the compound-name writer
// recomposes from.
type PersonNameRule struct{}

func (PersonNameRule) Name() string { return "json_person_name" }
func (PersonNameRule) Kind() Kind   { return KindJSON }

func (PersonNameRule) Extract(src *Source) []Candidate {
	root, ok := parseJSON(src.Content)
	if !ok {
		return nil
	}
	var out []Candidate
	walkObjects(root, 1, func(obj map[string]any, _ int) {
		if v, ok := obj["first_name"].(string); ok && v != "" {
			out = append(out, Candidate{Locator: LocFirstName, Text: v})
		}
		if v, ok := obj["last_name"].(string); ok && v != "" {
			out = append(out, Candidate{Locator: LocSecondName, Text: v})
		}
	})
	return out
}
