package role

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

func TestMigrateRolesCreatesAdminRole(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	editor := dbtest.Role(t, db, "editor", false, menu.Blog)
	dbtest.User(t, db, "legacy@example.org", "Amministratore", nil)
	dbtest.User(t, db, "other@example.org", "editor", nil)
	assigned := dbtest.User(t, db, "editor@example.org", "", &editor.ID)

	report, err := MigrateRoles(ctx, db)
	require.NoError(t, err)

	assert.True(t, report.RoleCreated)
	assert.Equal(t, int64(len(menu.Items())), report.Granted)
	assert.Equal(t, int64(2), report.MigratedUsers)

	admin, err := ByName(ctx, db, "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, report.RoleID, admin.ID)
	assert.True(t, admin.IsSystem)

	var stillEditor models.User
	require.NoError(t, db.First(&stillEditor, assigned.ID).Error)
	require.NotNil(t, stillEditor.RoleID)
	assert.Equal(t, editor.ID, *stillEditor.RoleID)

	var orphans int64
	require.NoError(t, db.Model(&models.User{}).Where("role_id IS NULL").Count(&orphans).Error)
	assert.Zero(t, orphans)
}

func TestMigrateRolesCompletesExistingRole(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	admin := dbtest.Role(t, db, "Admin", false, menu.Dashboard)

	report, err := MigrateRoles(ctx, db)
	require.NoError(t, err)

	assert.False(t, report.RoleCreated)
	assert.Equal(t, admin.ID, report.RoleID)
	assert.Equal(t, int64(len(menu.Items())-1), report.Granted)
	assert.ElementsMatch(t, menuStrings(menu.Items()), dbtest.MenuItems(t, db, admin.ID))

	var stored models.Role
	require.NoError(t, db.First(&stored, admin.ID).Error)
	assert.True(t, stored.IsSystem)

	again, err := MigrateRoles(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, again.Granted)
	assert.Zero(t, again.MigratedUsers)
}

func menuStrings(items []menu.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = string(item)
	}

	return out
}
