package rules

import (
	"github.com/rs/zerolog"

	"rpytl/internal/config"
)

// Registry holds the available extraction rules keyed by name, preserving
// registration order so an empty selection runs everything in a stable,
// documented order.
type Registry struct {
	log   zerolog.Logger
	rules map[string]Rule
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{log: log, rules: map[string]Rule{}}
}

// FromTables builds a registry from the loaded rule tables in default
// order: property rules in table order, renpy_notify, dict_keys, JSON
// field rules, json_person_name. Rows that fail to compile are logged
// and skipped.
func FromTables(log zerolog.Logger, tables *config.RuleTables) *Registry {
	r := NewRegistry(log)
	for _, p := range tables.Properties {
		rule, err := NewPropertyRule(p.Name, p.Type)
		if err != nil {
			log.Warn().Err(err).Str("property", p.Name).Msg("skipping property rule")
			continue
		}
		r.Register(rule)
	}
	r.Register(NotifyRule{})
	r.Register(NewDictKeysRule(tables.DictKeys))
	for _, field := range tables.JSONFields {
		r.Register(NewJSONFieldRule(field))
	}
	r.Register(PersonNameRule{})
	return r
}

// Register adds rule under its name. Re-registering a name replaces the
// implementation but keeps its position in the default order.
func (r *Registry) Register(rule Rule) {
	name := rule.Name()
	if _, exists := r.rules[name]; !exists {
		r.order = append(r.order, name)
	} else {
		r.log.Debug().Str("rule", name).Msg("replacing registered rule")
	}
	r.rules[name] = rule
}

// Unregister removes the named rule, reporting whether it existed.
func (r *Registry) Unregister(name string) bool {
	if _, ok := r.rules[name]; !ok {
		return false
	}
	delete(r.rules, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the named rule.
func (r *Registry) Get(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// Names returns the registered rule names in default order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ExtractAll runs the named rules over src in the given order and
// concatenates their candidates. An empty names list runs every
// registered rule; unknown names are skipped with a diagnostic.
func (r *Registry) ExtractAll(src *Source, names []string) []Candidate {
	if len(names) == 0 {
		names = r.order
	}
	var out []Candidate
	for _, name := range names {
		rule, ok := r.rules[name]
		if !ok {
			r.log.Debug().Str("rule", name).Msg("unknown extraction rule, skipping")
			continue
		}
		out = append(out, rule.Extract(src)...)
	}
	return out
}
