// Package menu defines the closed vocabulary of admin menu items and the static admin menu.
//
// Permissions grant a role access to menu items; the menu shown to a user is the static
// table filtered by the items the user's role holds, in table order.
package menu

import (
	"errors"
	"fmt"
	"strings"
)

// Item identifies one section of the admin area.
type Item string

// The menu vocabulary. Adding an item here makes it grantable.
const (
	Dashboard   Item = "dashboard"
	Home        Item = "home"
	Services    Item = "services"
	Projects    Item = "projects"
	Blog        Item = "blog"
	Team        Item = "team"
	Recruitment Item = "recruitment"
	Contacts    Item = "contacts"
	Newsletter  Item = "newsletter"
	Policies    Item = "policies"
	Settings    Item = "settings"
)

// ErrUnknownItem is returned for strings outside the vocabulary.
var ErrUnknownItem = errors.New("unknown menu item")

// Entry is one line of the admin navigation.
type Entry struct {
	Item  Item   `json:"id"`
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon"`
}

var table = []Entry{ //nolint:gochecknoglobals
	{Dashboard, "Dashboard", "/admin", "gauge"},
	{Home, "Home page", "/admin/home", "house"},
	{Services, "Services", "/admin/services", "briefcase"},
	{Projects, "Projects", "/admin/projects", "folder"},
	{Blog, "Blog", "/admin/blog", "newspaper"},
	{Team, "Team", "/admin/team", "users"},
	{Recruitment, "Recruitment", "/admin/recruitment", "user-plus"},
	{Contacts, "Contacts", "/admin/contacts", "envelope"},
	{Newsletter, "Newsletter", "/admin/newsletter", "paper-plane"},
	{Policies, "Policies", "/admin/policies", "scale-balanced"},
	{Settings, "Settings", "/admin/settings", "gear"},
}

// Mandatory lists the items an administrator role must always hold.
func Mandatory() []Item {
	return []Item{Dashboard, Settings}
}

// All returns the full static menu.
func All() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)

	return out
}

// Items returns the vocabulary in menu order.
func Items() []Item {
	out := make([]Item, len(table))
	for i, e := range table {
		out[i] = e.Item
	}

	return out
}

// Valid reports whether i belongs to the vocabulary.
func (i Item) Valid() bool {
	for _, e := range table {
		if e.Item == i {
			return true
		}
	}

	return false
}

// String implements fmt.Stringer.
func (i Item) String() string {
	return string(i)
}

// Parse converts s to an Item. Matching ignores case and surrounding space.
func Parse(s string) (Item, error) {
	i := Item(strings.ToLower(strings.TrimSpace(s)))
	if !i.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownItem, s)
	}

	return i, nil
}

// ParseAll parses every string and removes duplicates, keeping first occurrence order.
// The error names every rejected value.
func ParseAll(values []string) ([]Item, error) {
	var (
		out     = make([]Item, 0, len(values))
		seen    = make(map[Item]struct{}, len(values))
		invalid []string
	)

	for _, v := range values {
		i, err := Parse(v)
		if err != nil {
			invalid = append(invalid, v)
			continue
		}

		if _, dup := seen[i]; dup {
			continue
		}

		seen[i] = struct{}{}
		out = append(out, i)
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownItem, strings.Join(invalid, ", "))
	}

	return out, nil
}

// Filter returns the static menu entries whose item is in allowed, in menu order.
// Unknown values in allowed are ignored.
func Filter(allowed []string) []Entry {
	set := make(map[Item]struct{}, len(allowed))
	for _, a := range allowed {
		set[Item(a)] = struct{}{}
	}

	out := make([]Entry, 0, len(set))

	for _, e := range table {
		if _, ok := set[e.Item]; ok {
			out = append(out, e)
		}
	}

	return out
}
