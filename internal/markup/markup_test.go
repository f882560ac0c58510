package markup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpans(t *testing.T) {
	spans := Spans("Hello {b}[player_name]{/b}!")
	require.Len(t, spans, 3)
	require.Equal(t, Span{Start: 6, End: 9}, spans[0])
	require.Equal(t, Span{Start: 9, End: 22}, spans[1])
	require.Equal(t, Span{Start: 22, End: 26}, spans[2])
}

func TestSpansNone(t *testing.T) {
	require.Nil(t, Spans("plain text"))
}

func TestBlank(t *testing.T) {
	sp := func(n int) string { return strings.Repeat(" ", n) }
	cases := []struct {
		in   string
		want string
	}{
		{"Hello {var_name}", "Hello " + sp(10)},
		{"foo_bar {x}", "foo_bar " + sp(3)},
		{"[who] said {i}hi{/i}", sp(5) + " said " + sp(3) + "hi" + sp(4)},
		{"nothing here", "nothing here"},
	}
	for _, tc := range cases {
		got := Blank(tc.in)
		require.Equal(t, tc.want, got)
		require.Len(t, got, len(tc.in))
	}
}

func TestBlankKeepsUnderscoreOutsideMarkup(t *testing.T) {
	got := Blank("foo_bar {var_x}")
	require.Contains(t, got, "_")
	require.NotContains(t, got, "var_x")
}
