// Package rules holds the eligibility preconditions for receiving a sacrament
// or serving in a ceremonial role, and the evaluator that applies them to a
// person's sacramental history.
package rules

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned by Catalog.Get when no rule matches the key.
// Callers must reject the request; there is no empty-rule fallback.
var ErrUnknownKey = errors.New("unknown rule key")

// Rule is the precondition attached to one sacrament type or ceremonial role.
// Required roles must all be present in the candidate's history; Excluded
// roles must all be absent. Role names are stored in canonical uppercase.
type Rule struct {
	required map[string]struct{}
	excluded map[string]struct{}
}

// Required lists the rule's required role names.
func (r Rule) Required() []string { return setToSlice(r.required) }

// Excluded lists the rule's excluded role names.
func (r Rule) Excluded() []string { return setToSlice(r.excluded) }

// Catalog is an immutable rule table keyed case-insensitively.
type Catalog struct {
	rules map[string]Rule
}

// NewCatalog builds a catalog, normalizing keys to lowercase and role names to
// uppercase. A rule whose required and excluded sets overlap is a modeling
// contradiction and fails construction.
func NewCatalog(entries map[string]RuleSpec) (*Catalog, error) {
	c := &Catalog{rules: make(map[string]Rule, len(entries))}
	for key, spec := range entries {
		rule := Rule{
			required: normalizeSet(spec.Required),
			excluded: normalizeSet(spec.Excluded),
		}
		for role := range rule.required {
			if _, clash := rule.excluded[role]; clash {
				return nil, fmt.Errorf("rule %q both requires and excludes role %q", key, role)
			}
		}
		c.rules[strings.ToLower(key)] = rule
	}
	return c, nil
}

// RuleSpec is the declaration form used to populate a catalog.
type RuleSpec struct {
	Required []string
	Excluded []string
}

// Get resolves a rule by key, case-insensitively.
func (c *Catalog) Get(key string) (Rule, error) {
	rule, ok := c.rules[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return rule, nil
}

// Keys lists the catalog's keys in their normalized (lowercase) form.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.rules))
	for k := range c.rules {
		keys = append(keys, k)
	}
	return keys
}

func normalizeSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[CanonicalRole(n)] = struct{}{}
	}
	return set
}

func setToSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}

// CanonicalRole normalizes a role name for comparison. Role names originate
// from free-form catalog data entry, so matching must not depend on case or
// padding.
func CanonicalRole(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Sacraments governs who may receive a sacrament, keyed by sacrament-type
// name. Roles governs who may serve in a ceremonial capacity, keyed by role
// name. Both are fixed at startup; a contradictory rule panics rather than
// silently admitting everyone.
var (
	Sacraments = mustCatalog(map[string]RuleSpec{
		"Bautizo":      {Excluded: []string{"BAUTIZADO"}},
		"Comunion":     {Required: []string{"BAUTIZADO"}, Excluded: []string{"COMULGADO"}},
		"Confirmacion": {Required: []string{"BAUTIZADO", "COMULGADO"}, Excluded: []string{"CONFIRMADO"}},
		"Matrimonio":   {Required: []string{"BAUTIZADO"}, Excluded: []string{"CASADO"}},
	})

	Roles = mustCatalog(map[string]RuleSpec{
		"padrino":  {Required: []string{"BAUTIZADO"}},
		"ministro": {Required: []string{"BAUTIZADO", "CONFIRMADO"}},
	})
)

func mustCatalog(entries map[string]RuleSpec) *Catalog {
	c, err := NewCatalog(entries)
	if err != nil {
		panic(err)
	}
	return c
}
