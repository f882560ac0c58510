package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPropertyRuleEquals(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", `description = "Hello"`)
	require.Equal(t, []Candidate{{Locator: 1, Text: "Hello"}}, rule.Extract(src))
}

func TestPropertyRuleWordBoundary(t *testing.T) {
	rule, err := NewPropertyRule("name", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", `headmaster_name = "X"`)
	require.Empty(t, rule.Extract(src))
}

func TestPropertyRuleColon(t *testing.T) {
	rule, err := NewPropertyRule("available_tooltip", SyntaxColon)
	require.NoError(t, err)

	src := NewSource("ui.rpy", `"available_tooltip": "Press to open"`)
	require.Equal(t, []Candidate{{Locator: 1, Text: "Press to open"}}, rule.Extract(src))

	// Partial identifiers never match.
	src = NewSource("ui.rpy", `"extra_available_tooltip": "nope"`)
	require.Empty(t, rule.Extract(src))
}

func TestPropertyRuleSpace(t *testing.T) {
	rule, err := NewPropertyRule("text", SyntaxSpace)
	require.NoError(t, err)

	src := NewSource("screens.rpy", "    text \"Continue\"\n    textbutton \"Back\"")
	require.Equal(t, []Candidate{{Locator: 1, Text: "Continue"}}, rule.Extract(src))
}

func TestPropertyRuleSkipsLineComments(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", "# description = \"Hidden\"\ndescription = \"Shown\"")
	require.Equal(t, []Candidate{{Locator: 2, Text: "Shown"}}, rule.Extract(src))
}

func TestPropertyRuleSkipsBlockComments(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	content := "\"\"\"\ndescription = \"Doc\"\n\"\"\"\ndescription = \"Real\""
	src := NewSource("shop.rpy", content)
	require.Equal(t, []Candidate{{Locator: 4, Text: "Real"}}, rule.Extract(src))
}

func TestPropertyRuleFStringPrefix(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", `description = f"Hi {player}"`)
	require.Equal(t, []Candidate{{Locator: 1, Text: "Hi {player}"}}, rule.Extract(src))
}

func TestPropertyRuleTripleQuoted(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", "description = \"\"\"first\nsecond\"\"\"")
	require.Equal(t, []Candidate{{Locator: 1, Text: "first\nsecond"}}, rule.Extract(src))
}

func TestPropertyRuleDropsBlankValues(t *testing.T) {
	rule, err := NewPropertyRule("description", SyntaxEquals)
	require.NoError(t, err)

	src := NewSource("shop.rpy", "description = \"\"\ndescription = \"   \"")
	require.Empty(t, rule.Extract(src))
}

func TestPropertyRuleBadSyntax(t *testing.T) {
	_, err := NewPropertyRule("description", 9)
	require.Error(t, err)
	_, err = NewPropertyRule("", SyntaxEquals)
	require.Error(t, err)
}

func TestNotifyRule(t *testing.T) {
	src := NewSource("game.rpy", "    renpy.notify(\"Saved!\")\n    renpy.notify(variable)")
	got := NotifyRule{}.Extract(src)
	require.Equal(t, []Candidate{{Locator: 1, Text: "Saved!"}}, got)
}
