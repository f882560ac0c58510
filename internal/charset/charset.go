package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
)

// encodings maps the configurable encoding names to their implementations.
// "ascii" is handled separately since x/text has no pure-ASCII codec.
var encodings = map[string]encoding.Encoding{
	"utf-8":     unicode.UTF8,
	"utf8":      unicode.UTF8,
	"gbk":       simplifiedchinese.GBK,
	"cp932":     japanese.ShiftJIS,
	"shift-jis": japanese.ShiftJIS,
	"latin1":    charmap.ISO8859_1,
}

// Names returns the supported encoding names for help text and validation.
func Names() []string {
	return []string{"utf-8", "gbk", "cp932", "latin1", "ascii"}
}

// Supported reports whether name is a known encoding.
func Supported(name string) bool {
	if strings.EqualFold(name, "ascii") {
		return true
	}
	_, ok := encodings[strings.ToLower(name)]
	return ok
}

// Decode converts raw file bytes in the named encoding to a UTF-8 string.
// Undecodable bytes become U+FFFD rather than failing the file.
func Decode(data []byte, name string) (string, error) {
	lower := strings.ToLower(name)
	if lower == "ascii" {
		return decodeASCII(data), nil
	}
	enc, ok := encodings[lower]
	if !ok {
		return "", fmt.Errorf("unknown encoding %q", name)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", lower, err)
	}
	return string(out), nil
}

// Encode converts a UTF-8 string to bytes in the named encoding.
// Unsupported runes are substituted rather than failing the write.
func Encode(s string, name string) ([]byte, error) {
	lower := strings.ToLower(name)
	if lower == "ascii" {
		return encodeASCII(s), nil
	}
	enc, ok := encodings[lower]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", lower, err)
	}
	return out, nil
}

func decodeASCII(data []byte) string {
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c < utf8.RuneSelf {
			b.WriteByte(c)
		} else {
			b.WriteRune(utf8.RuneError)
		}
	}
	return b.String()
}

func encodeASCII(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
		} else {
			out = append(out, '?')
		}
	}
	return out
}
