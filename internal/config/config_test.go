package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, ModeAppend, cfg.WriteMode)
	require.Equal(t, FormatRenpy, cfg.WriterFormat)
	require.True(t, cfg.Recursive)
	require.True(t, cfg.SkipTranslated)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, "schinese", cfg.Locale)
	require.Equal(t, []string{"*.rpy"}, cfg.FilePatterns)
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpytl.json")
	body := `{"locale": "english", "recursive": false, "file_patterns": ["*.rpy", "*.json"]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "english", cfg.Locale)
	require.False(t, cfg.Recursive)
	require.Equal(t, []string{"*.rpy", "*.json"}, cfg.FilePatterns)
	// Untouched fields keep defaults.
	require.Equal(t, ModeAppend, cfg.WriteMode)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RPYTL_LOCALE", "japanese")
	t.Setenv("RPYTL_ENCODING", "cp932")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Equal(t, "japanese", cfg.Locale)
	require.Equal(t, "cp932", cfg.Encoding)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rpytl.json")

	cfg := Default()
	cfg.Locale = "french"
	cfg.WriteMode = ModeOverwrite
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "french", back.Locale)
	require.Equal(t, ModeOverwrite, back.WriteMode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.WriteMode = "replace" },
		func(c *Config) { c.WriterFormat = "xml" },
		func(c *Config) { c.Encoding = "klingon" },
		func(c *Config) { c.FilePatterns = nil },
	}
	for _, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		require.Error(t, cfg.Validate())
	}
}

func TestLoadRuleTablesDefaults(t *testing.T) {
	tables, err := LoadRuleTables(filepath.Join(t.TempDir(), "nowhere"))
	require.NoError(t, err)

	require.NotEmpty(t, tables.Properties)
	names := map[string]int{}
	for _, p := range tables.Properties {
		names[p.Name] = p.Type
	}
	require.Equal(t, 1, names["description"])
	require.Equal(t, 2, names["available_tooltip"])
	require.Equal(t, 3, names["tooltip"])

	require.Equal(t, []string{"cold", "generic"}, tables.DictKeys)
	require.Equal(t, []string{"description", "display_name"}, tables.JSONFields)
}

func TestLoadRuleTablesFromFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PropertiesFile), []byte(
		`{"properties": [
			{"name": "quest_text", "type": 1, "enabled": true},
			{"name": "debug_label", "type": 3, "enabled": false}
		]}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DictKeysFile), []byte(
		`{"key_names": {"generic": true, "frozen": false, "warm": true}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, JSONFieldsFile), []byte(
		`{"fields": {"display_name": {"enabled": true}, "bio": {"enabled": false}}}`), 0o644))

	tables, err := LoadRuleTables(dir)
	require.NoError(t, err)
	require.Len(t, tables.Properties, 1)
	require.Equal(t, "quest_text", tables.Properties[0].Name)
	require.Equal(t, []string{"generic", "warm"}, tables.DictKeys)
	require.Equal(t, []string{"display_name"}, tables.JSONFields)
}

func TestLoadRuleTablesLegacyKeyList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DictKeysFile), []byte(
		`{"key_names": ["beta", "alpha"]}`), 0o644))

	tables, err := LoadRuleTables(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, tables.DictKeys)
}

func TestSaveDefaultTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "configs")
	require.NoError(t, SaveDefaultTables(dir))

	for _, name := range []string{PropertiesFile, DictKeysFile, JSONFieldsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	tables, err := LoadRuleTables(dir)
	require.NoError(t, err)
	require.Len(t, tables.Properties, len(DefaultProperties()))
	require.Equal(t, []string{"cold", "generic"}, tables.DictKeys)
}
