package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEligible_Bautizo(t *testing.T) {
	rule, err := Sacraments.Get("bautizo")
	require.NoError(t, err)

	assert.True(t, IsEligible(NewRoleSet(), rule), "person with no history may be baptized")
	assert.False(t, IsEligible(NewRoleSet("BAUTIZADO"), rule), "already baptized is excluded")
	assert.False(t, IsEligible(NewRoleSet("bautizado"), rule), "exclusion is case-insensitive")
}

func TestIsEligible_Confirmacion(t *testing.T) {
	rule, err := Sacraments.Get("confirmacion")
	require.NoError(t, err)

	cases := []struct {
		name  string
		roles RoleSet
		want  bool
	}{
		{"missing communion", NewRoleSet("BAUTIZADO"), false},
		{"baptized and communed", NewRoleSet("BAUTIZADO", "COMULGADO"), true},
		{"already confirmed", NewRoleSet("BAUTIZADO", "COMULGADO", "CONFIRMADO"), false},
		{"empty history", NewRoleSet(), false},
		{"unrelated extra roles", NewRoleSet("BAUTIZADO", "COMULGADO", "PADRINO"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEligible(tc.roles, rule))
		})
	}
}

func TestIsEligible_RoleCatalog(t *testing.T) {
	padrino, err := Roles.Get("Padrino")
	require.NoError(t, err)
	assert.True(t, IsEligible(NewRoleSet("BAUTIZADO"), padrino))
	assert.False(t, IsEligible(NewRoleSet(), padrino))

	ministro, err := Roles.Get("ministro")
	require.NoError(t, err)
	assert.False(t, IsEligible(NewRoleSet("BAUTIZADO"), ministro))
	assert.True(t, IsEligible(NewRoleSet("BAUTIZADO", "CONFIRMADO"), ministro))
}

func TestIsEligible_SetAlgebra(t *testing.T) {
	// isEligible(R) == (required ⊆ R) && (excluded ∩ R == ∅) over a small grid.
	catalog, err := NewCatalog(map[string]RuleSpec{
		"r": {Required: []string{"A", "B"}, Excluded: []string{"C"}},
	})
	require.NoError(t, err)
	rule, err := catalog.Get("r")
	require.NoError(t, err)

	all := []string{"A", "B", "C", "D"}
	for mask := 0; mask < 1<<len(all); mask++ {
		var names []string
		for i, n := range all {
			if mask&(1<<i) != 0 {
				names = append(names, n)
			}
		}
		set := NewRoleSet(names...)
		want := set.Has("A") && set.Has("B") && !set.Has("C")
		assert.Equal(t, want, IsEligible(set, rule), "roles %v", names)
	}
}

func TestIsEligible_Idempotent(t *testing.T) {
	rule, err := Sacraments.Get("comunion")
	require.NoError(t, err)
	set := NewRoleSet("BAUTIZADO")

	first := IsEligible(set, rule)
	second := IsEligible(set, rule)
	assert.Equal(t, first, second)
	assert.True(t, first)
}
