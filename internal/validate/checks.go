package validate

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"rpytl/internal/markup"
	"rpytl/internal/textutil"
)

func nonEmpty(_ *Context, text string) bool {
	return strings.TrimSpace(text) != ""
}

func hasAlphanumeric(_ *Context, text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// noInvalidChars rejects NUL, the replacement character, and control
// characters other than tab, newline and carriage return.
func noInvalidChars(_ *Context, text string) bool {
	for _, r := range text {
		if r == '�' {
			return false
		}
		if r < 0x20 && r != '\n' && r != '\t' && r != '\r' {
			return false
		}
	}
	return true
}

// newStringConsistency rejects texts whose double quotes or curly braces
// cannot survive a round trip through the stub format. Single-quote
// imbalance is only logged: apostrophes in prose trip the count too
// often to reject on.
func newStringConsistency(log zerolog.Logger) Func {
	return func(_ *Context, text string) bool {
		if strings.Count(text, `"`)%2 != 0 {
			return false
		}
		if !balancedBraces(text) {
			return false
		}
		if oddSingleQuotes(text) {
			log.Warn().
				Str("text", textutil.Truncate(textutil.FirstLine(text), 40)).
				Msg("possible single-quote imbalance")
		}
		return true
	}
}

func balancedBraces(text string) bool {
	depth := 0
	for _, r := range text {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}

// continuationLetters starts the suffix of common English contractions
// ('s, 't, 'd, 'm, 'll, 're, 've).
var continuationLetters = map[rune]bool{
	's': true, 't': true, 'd': true, 'm': true, 'l': true, 'r': true, 'v': true,
}

// oddSingleQuotes counts single quotes that do not look like
// contraction apostrophes and reports whether the count is odd.
func oddSingleQuotes(text string) bool {
	rs := []rune(text)
	count := 0
	for i, r := range rs {
		if r != '\'' {
			continue
		}
		if i > 0 && i+1 < len(rs) && unicode.IsLetter(rs[i-1]) && continuationLetters[unicode.ToLower(rs[i+1])] {
			continue
		}
		count++
	}
	return count%2 == 1
}

// noUnderscore rejects identifier-looking texts. Markup and
// interpolation spans are blanked first so {var_name} style tokens do
// not count against the text.
func noUnderscore(_ *Context, text string) bool {
	return !strings.ContainsRune(markup.Blank(text), '_')
}

var imageRefPattern = regexp.MustCompile(`(?i)[\w/\\.-]+\.(?:png|jpe?g|webp|gif|bmp)\b`)

// noImageRefs rejects texts referencing image files; asset paths slip
// through extraction but are never translator-facing.
func noImageRefs(_ *Context, text string) bool {
	return !imageRefPattern.MatchString(text)
}

// globalDeduplicate accepts the first occurrence of a trimmed text per
// run and rejects every later one.
func globalDeduplicate(ctx *Context, text string) bool {
	return ctx.CheckAndAdd(strings.TrimSpace(text))
}
