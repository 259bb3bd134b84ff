package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	ctx := New("Settings", "admin", "settings")

	assert.Equal(t, "Settings", ctx.PageTitle)
	assert.Equal(t, "admin", ctx.ActiveSection)
	assert.Equal(t, "settings", ctx.ActivePage)
	assert.Empty(t, ctx.Breadcrumbs)
}

func TestAdmin(t *testing.T) {
	ctx := Admin("Users", "users")

	assert.Equal(t, "admin", ctx.ActiveSection)
	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Dashboard", ctx.Breadcrumbs[0].Title)
	assert.Equal(t, "/", ctx.Breadcrumbs[0].URL)
	assert.Equal(t, "Users", ctx.Breadcrumbs[1].Title)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestContext_AddBreadcrumb_Chaining(t *testing.T) {
	ctx := New("Page", "admin", "settings").
		AddBreadcrumb("Dashboard", "/", false).
		AddBreadcrumb("Settings", "/admin/settings", true)

	assert.Len(t, ctx.Breadcrumbs, 2)
	assert.Equal(t, "Dashboard", ctx.Breadcrumbs[0].Title)
	assert.True(t, ctx.Breadcrumbs[1].Active)
}

func TestContext_IsActive(t *testing.T) {
	ctx := New("Settings", "admin", "settings")

	assert.True(t, ctx.IsActive("admin", "settings"))
	assert.False(t, ctx.IsActive("admin", "users"))
	assert.False(t, ctx.IsActive("dashboard", "settings"))
}

func TestContext_IsSectionActive(t *testing.T) {
	ctx := New("Settings", "admin", "settings")

	assert.True(t, ctx.IsSectionActive("admin"))
	assert.False(t, ctx.IsSectionActive("dashboard"))
}
