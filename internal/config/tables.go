package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Rule-table file names under RulesDir.
const (
	PropertiesFile = "custom_properties.json"
	DictKeysFile   = "dict_keys.json"
	JSONFieldsFile = "json_fields.json"
)

// Property is one row of the property rule table. Type selects the
// assignment syntax: 1 is `name = value`, 2 is `"name": value`,
// 3 is `name value`.
type Property struct {
	Name    string `json:"name"`
	Type    int    `json:"type"`
	Enabled bool   `json:"enabled"`
}

// RuleTables holds the loaded, enabled rule definitions. Properties keep
// file order; key and field names are sorted for deterministic runs.
type RuleTables struct {
	Properties []Property
	DictKeys   []string
	JSONFields []string
}

type propertiesFile struct {
	Properties []Property `json:"properties"`
}

type dictKeysFile struct {
	KeyNames json.RawMessage `json:"key_names"`
}

type jsonFieldsFile struct {
	Fields map[string]struct {
		Enabled bool `json:"enabled"`
	} `json:"fields"`
}

// DefaultProperties is the built-in property table used when no
// custom_properties.json exists.
func DefaultProperties() []Property {
	names1 := []string{
		"description", "purchase_notification", "unlock_notification",
		"title_text", "description_text", "name", "sponsor_description",
	}
	names2 := []string{"available_tooltip", "unavailable_tooltip", "unavailable_notification"}
	names3 := []string{"tooltip", "text", "textbutton"}

	var props []Property
	for _, n := range names1 {
		props = append(props, Property{Name: n, Type: 1, Enabled: true})
	}
	for _, n := range names2 {
		props = append(props, Property{Name: n, Type: 2, Enabled: true})
	}
	for _, n := range names3 {
		props = append(props, Property{Name: n, Type: 3, Enabled: true})
	}
	return props
}

// DefaultDictKeys is the built-in bracketed-array key table.
func DefaultDictKeys() map[string]bool {
	return map[string]bool{"generic": true, "cold": true}
}

// DefaultJSONFields is the built-in JSON field table.
func DefaultJSONFields() map[string]bool {
	return map[string]bool{"display_name": true, "description": true}
}

// LoadRuleTables reads the three rule-table files from dir, falling back
// to the built-in defaults per file. Disabled entries are filtered out.
func LoadRuleTables(dir string) (*RuleTables, error) {
	t := &RuleTables{}

	props, err := loadProperties(filepath.Join(dir, PropertiesFile))
	if err != nil {
		return nil, err
	}
	for _, p := range props {
		if p.Enabled && p.Name != "" {
			t.Properties = append(t.Properties, p)
		}
	}

	keys, err := loadDictKeys(filepath.Join(dir, DictKeysFile))
	if err != nil {
		return nil, err
	}
	t.DictKeys = keys

	fields, err := loadJSONFields(filepath.Join(dir, JSONFieldsFile))
	if err != nil {
		return nil, err
	}
	t.JSONFields = fields

	return t, nil
}

// DefaultTables returns the built-in rule tables, as loaded when no
// table files are present.
func DefaultTables() *RuleTables {
	t := &RuleTables{
		DictKeys:   sortedEnabled(DefaultDictKeys()),
		JSONFields: sortedEnabled(DefaultJSONFields()),
	}
	for _, p := range DefaultProperties() {
		if p.Enabled {
			t.Properties = append(t.Properties, p)
		}
	}
	return t
}

// SaveDefaultTables writes the built-in rule tables to dir, creating it
// if needed. Existing files are left alone.
func SaveDefaultTables(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create rules dir: %w", err)
	}

	write := func(name string, v any) error {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal %s: %w", name, err)
		}
		if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		return nil
	}

	if err := write(PropertiesFile, propertiesFile{Properties: DefaultProperties()}); err != nil {
		return err
	}
	rawKeys, err := json.Marshal(DefaultDictKeys())
	if err != nil {
		return fmt.Errorf("marshal dict keys: %w", err)
	}
	if err := write(DictKeysFile, dictKeysFile{KeyNames: rawKeys}); err != nil {
		return err
	}
	fields := map[string]struct {
		Enabled bool `json:"enabled"`
	}{}
	for name, enabled := range DefaultJSONFields() {
		fields[name] = struct {
			Enabled bool `json:"enabled"`
		}{Enabled: enabled}
	}
	return write(JSONFieldsFile, jsonFieldsFile{Fields: fields})
}

func loadProperties(path string) ([]Property, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProperties(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f propertiesFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f.Properties, nil
}

func loadDictKeys(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return sortedEnabled(DefaultDictKeys()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f dictKeysFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.KeyNames) == 0 {
		return nil, nil
	}

	// Current form is a name→enabled map; the legacy form is a plain list.
	var m map[string]bool
	if err := json.Unmarshal(f.KeyNames, &m); err == nil {
		return sortedEnabled(m), nil
	}
	var list []string
	if err := json.Unmarshal(f.KeyNames, &list); err == nil {
		m = map[string]bool{}
		for _, k := range list {
			m[k] = true
		}
		return sortedEnabled(m), nil
	}
	return nil, fmt.Errorf("parse %s: key_names is neither map nor list", path)
}

func loadJSONFields(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return sortedEnabled(DefaultJSONFields()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f jsonFieldsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	m := map[string]bool{}
	for name, v := range f.Fields {
		m[name] = v.Enabled
	}
	return sortedEnabled(m), nil
}
