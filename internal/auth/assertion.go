package auth

import "strings"

// RoleAssertion is one source claiming a role for the caller. It is either a LegacyRole,
// the free form string of sessions issued before roles existed, or a RoleRef to a stored role.
type RoleAssertion interface {
	// DenotesAdmin reports whether the asserted role is an administrator role.
	DenotesAdmin() bool
}

// LegacyRole is the role string carried by the session claim.
type LegacyRole string

// DenotesAdmin implements RoleAssertion.
func (r LegacyRole) DenotesAdmin() bool {
	return adminEquivalent(string(r))
}

// RoleRef is a stored role, resolved to its name.
type RoleRef struct {
	ID   uint
	Name string
}

// DenotesAdmin implements RoleAssertion.
func (r RoleRef) DenotesAdmin() bool {
	return adminEquivalent(r.Name)
}

// IsAdminRoleName reports whether a role name is admin-equivalent.
func IsAdminRoleName(name string) bool {
	return adminEquivalent(name)
}

// IsAdmin is true when any assertion denotes an administrator.
func IsAdmin(assertions ...RoleAssertion) bool {
	for _, a := range assertions {
		if a != nil && a.DenotesAdmin() {
			return true
		}
	}

	return false
}

// adminEquivalent matches admin and amministratore ignoring case. The exact spellings used by
// accounts created before the role table are matched by their own clause and must stay.
func adminEquivalent(name string) bool {
	switch strings.ToLower(name) {
	case "admin", "amministratore":
		return true
	}

	return name == "Admin" || name == "Amministratore"
}
