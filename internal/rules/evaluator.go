package rules

// RoleSet is a person's historical ceremonial roles in canonical form.
type RoleSet map[string]struct{}

// NewRoleSet builds a RoleSet from raw role names, normalizing each one.
func NewRoleSet(names ...string) RoleSet {
	set := make(RoleSet, len(names))
	for _, n := range names {
		set[CanonicalRole(n)] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given role, normalizing first.
func (s RoleSet) Has(name string) bool {
	_, ok := s[CanonicalRole(name)]
	return ok
}

// IsEligible decides whether a candidate with the given role history may
// receive the sacrament or hold the role the rule describes. Both checks are
// computed unconditionally so either side of a rejection can be inspected in
// isolation.
func IsEligible(candidate RoleSet, rule Rule) bool {
	requiredOK := true
	for role := range rule.required {
		if _, ok := candidate[role]; !ok {
			requiredOK = false
		}
	}

	excludedOK := true
	for role := range rule.excluded {
		if _, ok := candidate[role]; ok {
			excludedOK = false
		}
	}

	return requiredOK && excludedOK
}
