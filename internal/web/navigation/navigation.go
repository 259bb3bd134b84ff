// Package navigation tracks which section of the site a page belongs to
// and the breadcrumb trail rendered above it.
package navigation

// Crumb is a single breadcrumb link.
type Crumb struct {
	Title  string
	URL    string
	Active bool
}

// Context carries the navigation state of a rendered page.
type Context struct {
	PageTitle     string
	ActiveSection string
	ActivePage    string
	Breadcrumbs   []Crumb
}

// New creates a navigation context rooted at the dashboard.
func New(pageTitle, activeSection, activePage string) *Context {
	return &Context{
		PageTitle:     pageTitle,
		ActiveSection: activeSection,
		ActivePage:    activePage,
		Breadcrumbs:   []Crumb{},
	}
}

// Admin creates a navigation context for an admin page with the
// standard Dashboard / Admin breadcrumb prefix already in place.
func Admin(pageTitle, activePage string) *Context {
	return New(pageTitle, "admin", activePage).
		AddBreadcrumb("Dashboard", "/", false).
		AddBreadcrumb(pageTitle, "", true)
}

// AddBreadcrumb appends a breadcrumb and returns the context for chaining.
func (c *Context) AddBreadcrumb(title, url string, active bool) *Context {
	c.Breadcrumbs = append(c.Breadcrumbs, Crumb{Title: title, URL: url, Active: active})

	return c
}

// IsActive reports whether the given section and page are the current ones.
func (c *Context) IsActive(section, page string) bool {
	return c.ActiveSection == section && c.ActivePage == page
}

// IsSectionActive reports whether the given section is the current one.
func (c *Context) IsSectionActive(section string) bool {
	return c.ActiveSection == section
}
