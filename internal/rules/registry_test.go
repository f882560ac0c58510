package rules

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"rpytl/internal/config"
)

func testTables() *config.RuleTables {
	return &config.RuleTables{
		Properties: []config.Property{
			{Name: "description", Type: 1, Enabled: true},
			{Name: "tooltip", Type: 3, Enabled: true},
		},
		DictKeys:   []string{"generic"},
		JSONFields: []string{"display_name"},
	}
}

func TestFromTablesDefaultOrder(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	require.Equal(t, []string{
		"description",
		"tooltip",
		"renpy_notify",
		"dict_keys",
		"json_display_name",
		"json_person_name",
	}, r.Names())
}

func TestFromTablesSkipsBadRows(t *testing.T) {
	tables := testTables()
	tables.Properties = append(tables.Properties, config.Property{Name: "bad", Type: 7, Enabled: true})
	r := FromTables(zerolog.Nop(), tables)
	_, ok := r.Get("bad")
	require.False(t, ok)
}

func TestExtractAllRunsSelectedInOrder(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	src := NewSource("mixed.rpy", "description = \"About\"\ntooltip \"Hover\"")

	got := r.ExtractAll(src, []string{"tooltip", "description"})
	require.Equal(t, []Candidate{
		{Locator: 2, Text: "Hover"},
		{Locator: 1, Text: "About"},
	}, got)
}

func TestExtractAllEmptySelectionRunsEverything(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	src := NewSource("mixed.rpy", `description = "About"`)

	got := r.ExtractAll(src, nil)
	require.Equal(t, []Candidate{{Locator: 1, Text: "About"}}, got)
}

func TestExtractAllUnknownNameSkipped(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	src := NewSource("mixed.rpy", `description = "About"`)

	got := r.ExtractAll(src, []string{"missing_rule", "description"})
	require.Equal(t, []Candidate{{Locator: 1, Text: "About"}}, got)
}

func TestRegisterReplaceKeepsOrder(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	before := r.Names()

	rule, err := NewPropertyRule("description", SyntaxColon)
	require.NoError(t, err)
	r.Register(rule)

	require.Equal(t, before, r.Names())
}

func TestUnregister(t *testing.T) {
	r := FromTables(zerolog.Nop(), testTables())
	require.True(t, r.Unregister("renpy_notify"))
	require.False(t, r.Unregister("renpy_notify"))
	require.NotContains(t, r.Names(), "renpy_notify")
}
