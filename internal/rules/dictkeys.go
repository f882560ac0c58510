package rules

import (
	"strings"

	"rpytl/internal/rpyscan"
)

// DictKeysRule extracts every string element of bracketed arrays assigned
// to the configured keys, e.g. `"generic": ["line one", "line two"]`.
// Bracket matching is depth-tracked so nested arrays stay inside one span.
type DictKeysRule struct {
	keys []string
}

// NewDictKeysRule builds the rule for the enabled key names.
func NewDictKeysRule(keys []string) *DictKeysRule {
	return &DictKeysRule{keys: keys}
}

func (r *DictKeysRule) Name() string { return "dict_keys" }
func (r *DictKeysRule) Kind() Kind   { return KindScript }

func (r *DictKeysRule) Extract(src *Source) []Candidate {
	var out []Candidate
	for _, key := range r.keys {
		out = append(out, r.extractKey(src, key)...)
	}
	return out
}

func (r *DictKeysRule) extractKey(src *Source, key string) []Candidate {
	content := src.Content
	needle := `"` + key + `"`

	var out []Candidate
	searchStart := 0
	for searchStart < len(content) {
		rel := strings.Index(content[searchStart:], needle)
		if rel < 0 {
			break
		}
		keyPos := searchStart + rel

		if src.InComment(keyPos) {
			searchStart = keyPos + 1
			continue
		}

		open := strings.IndexByte(content[keyPos:], '[')
		if open < 0 {
			// No array opens anywhere after this occurrence.
			searchStart = keyPos + 1
			continue
		}
		open += keyPos

		end := matchingBracket(content, open)
		if end < 0 {
			// Unterminated array: abandon this occurrence.
			searchStart = keyPos + 1
			continue
		}

		span := content[open+1 : end]
		for _, loc := range rpyscan.FindLiterals(span) {
			text := rpyscan.DecodeLiteral(span[loc[0]:loc[1]])
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, Candidate{
				Locator: src.Line(open + 1 + loc[0]),
				Text:    text,
			})
		}
		searchStart = end + 1
	}
	return out
}

// matchingBracket returns the offset of the ] closing the [ at open, or
// -1 when the array never terminates.
func matchingBracket(content string, open int) int {
	depth := 0
	for i := open; i < len(content); i++ {
		switch content[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
