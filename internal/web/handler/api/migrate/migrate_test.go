package migrate_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/controller/role"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler/api/migrate"
	"github.com/jesite/jesite/internal/web/webtest"
)

func TestMigrateRoles(t *testing.T) {
	f := webtest.New(t, &migrate.Service{})

	editor := dbtest.Role(t, f.DB, "editor", false, menu.Blog)
	editorToken := f.Token(dbtest.User(t, f.DB, "editor@example.org", "", &editor.ID))
	legacyToken := f.Token(dbtest.User(t, f.DB, "legacy@example.org", "Admin", nil))
	dbtest.User(t, f.DB, "old@example.org", "", nil)

	resp := f.Do(http.MethodPost, migrate.Path, nil, editorToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.Do(http.MethodPost, migrate.Path, nil, legacyToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report role.MigrationReport
	webtest.Decode(t, resp, &report)
	assert.True(t, report.RoleCreated)
	assert.Equal(t, int64(2), report.MigratedUsers)
	assert.Equal(t, int64(len(menu.Items())), report.Granted)

	resp = f.Do(http.MethodPost, migrate.Path, nil, legacyToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	webtest.Decode(t, resp, &report)
	assert.False(t, report.RoleCreated)
	assert.Zero(t, report.MigratedUsers)
	assert.Zero(t, report.Granted)
}
