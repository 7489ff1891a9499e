package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_CaseInsensitive(t *testing.T) {
	upper, err := Sacraments.Get("BAUTIZO")
	require.NoError(t, err)
	lower, err := Sacraments.Get("bautizo")
	require.NoError(t, err)
	mixed, err := Sacraments.Get("Bautizo")
	require.NoError(t, err)

	assert.Equal(t, upper, lower)
	assert.Equal(t, upper, mixed)
	assert.ElementsMatch(t, []string{"BAUTIZADO"}, upper.Excluded())
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Sacraments.Get("extremauncion")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = Roles.Get("")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestCatalogs_RequiredExcludedDisjoint(t *testing.T) {
	for _, catalog := range []*Catalog{Sacraments, Roles} {
		for _, key := range catalog.Keys() {
			rule, err := catalog.Get(key)
			require.NoError(t, err)
			for _, req := range rule.Required() {
				for _, exc := range rule.Excluded() {
					assert.NotEqual(t, req, exc, "rule %q requires and excludes %q", key, req)
				}
			}
		}
	}
}

func TestNewCatalog_RejectsContradiction(t *testing.T) {
	_, err := NewCatalog(map[string]RuleSpec{
		"broken": {Required: []string{"bautizado"}, Excluded: []string{"BAUTIZADO"}},
	})
	assert.Error(t, err)
}

func TestNewCatalog_NormalizesRoleNames(t *testing.T) {
	c, err := NewCatalog(map[string]RuleSpec{
		"prueba": {Required: []string{" bautizado "}},
	})
	require.NoError(t, err)

	rule, err := c.Get("PRUEBA")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"BAUTIZADO"}, rule.Required())
}
