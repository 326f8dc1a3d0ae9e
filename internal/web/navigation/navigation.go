// Package navigation builds the navigation state of rendered pages: the link bar and the breadcrumbs.
package navigation

import "github.com/jesite/jesite/internal/menu"

// BreadcrumbItem represents a single breadcrumb link.
type BreadcrumbItem struct {
	Title  string
	URL    string
	Active bool
}

// Link is one entry of a link bar.
type Link struct {
	Section string
	Title   string
	URL     string
	Active  bool
}

// Context represents the navigation context for a page.
type Context struct {
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []BreadcrumbItem
	Links         []Link
	PageTitle     string
}

// The sections of the public site in link bar order.
var publicLinks = []Link{ //nolint:gochecknoglobals
	{Section: "home", Title: "Home", URL: "/"},
	{Section: "services", Title: "Services", URL: "/services"},
	{Section: "projects", Title: "Projects", URL: "/projects"},
	{Section: "blog", Title: "Blog", URL: "/blog"},
	{Section: "team", Title: "Team", URL: "/team"},
	{Section: "recruitment", Title: "Join us", URL: "/recruitment"},
}

// NewContext creates a new navigation context.
func NewContext(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   make([]BreadcrumbItem, 0),
	}
}

// Public returns the context of a public page with the site link bar.
func Public(pageTitle, activeSection string) *Context {
	c := NewContext(pageTitle, activeSection, activeSection)

	c.Links = make([]Link, len(publicLinks))
	for i, l := range publicLinks {
		l.Active = l.Section == activeSection
		c.Links[i] = l
	}

	return c
}

// WithMenu fills the link bar with the admin menu entries the user may open.
func (c *Context) WithMenu(entries []menu.Entry) *Context {
	c.Links = make([]Link, 0, len(entries))
	for _, e := range entries {
		c.Links = append(c.Links, Link{
			Section: e.Item.String(),
			Title:   e.Label,
			URL:     e.Path,
			Active:  e.Item.String() == c.ActivePage,
		})
	}

	return c
}

// AddBreadcrumb adds a breadcrumb item to the context.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, BreadcrumbItem{
		Title:  title,
		URL:    url,
		Active: active,
	})

	return c
}

// IsActive checks if the given section and page match the current context.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive checks if the given section is active.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
