package rpyscan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeLiteral(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"double", `"hello"`, "hello"},
		{"single", `'hello'`, "hello"},
		{"double empty", `""`, ""},
		{"escaped delimiter", `"b\"c"`, `b"c`},
		{"single escaped delimiter", `'don\'t'`, "don't"},
		{"f prefix", `f"hi {name}"`, "hi {name}"},
		{"triple double", `"""block text"""`, "block text"},
		{"triple single", `'''block text'''`, "block text"},
		{"triple wins over double", `"""a"""`, "a"},
		{"multiline body", "\"\"\"first\nsecond\"\"\"", "first\nsecond"},
		{"other escapes preserved", `"a\nb"`, `a\nb`},
		{"degenerate", `"`, ""},
		{"unquoted", "plain", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DecodeLiteral(tc.raw))
		})
	}
}

func TestFindLiterals(t *testing.T) {
	s := `x = """a""" y = "" z = 'q'`
	locs := FindLiterals(s)
	require.Len(t, locs, 3)
	require.Equal(t, `"""a"""`, s[locs[0][0]:locs[0][1]])
	require.Equal(t, `""`, s[locs[1][0]:locs[1][1]])
	require.Equal(t, `'q'`, s[locs[2][0]:locs[2][1]])
}

func TestFindLiteralsEscapedQuote(t *testing.T) {
	s := `"a" "b\"c" "d"`
	locs := FindLiterals(s)
	require.Len(t, locs, 3)
	require.Equal(t, `"b\"c"`, s[locs[1][0]:locs[1][1]])
}

func TestCommentRangesLine(t *testing.T) {
	content := "line1\n# note here\nline3"
	ranges := CommentRanges(content)
	require.Len(t, ranges, 1)

	hash := 6 // offset of '#'
	require.True(t, InComment(ranges, hash))
	require.True(t, InComment(ranges, hash+5))
	require.False(t, InComment(ranges, 0))
	require.False(t, InComment(ranges, len(content)-1))
}

func TestCommentRangesBlock(t *testing.T) {
	content := "x = 1\n\"\"\"block\ncomment\"\"\"\ny = 2"
	ranges := CommentRanges(content)
	require.Len(t, ranges, 1)
	require.True(t, InComment(ranges, 10))
	require.False(t, InComment(ranges, 0))
}

func TestInCommentInclusiveEnd(t *testing.T) {
	r := Range{Start: 6, End: 15}
	require.True(t, r.In(6))
	require.True(t, r.In(15))
	require.False(t, r.In(16))
	require.False(t, r.In(5))
}

func TestLineAt(t *testing.T) {
	content := "a\nb\nc"
	require.Equal(t, 1, LineAt(content, 0))
	require.Equal(t, 2, LineAt(content, 2))
	require.Equal(t, 3, LineAt(content, 4))
	require.Equal(t, 3, LineAt(content, len(content)))
	require.Equal(t, 3, LineAt(content, len(content)+10))
}
