package user_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/handler/api/user"
	"github.com/jesite/jesite/internal/web/webtest"
)

func byID(id uint64) string {
	return user.Path + "?id=" + strconv.FormatUint(id, 10)
}

func TestUserAPI(t *testing.T) {
	f := webtest.New(t, &user.Service{})

	admin := dbtest.Role(t, f.DB, "admin", true, menu.Items()...)
	editor := dbtest.Role(t, f.DB, "editor", false, menu.Blog)

	adminUser := dbtest.User(t, f.DB, "admin@example.org", "", &admin.ID)
	adminToken := f.Token(adminUser)
	editorToken := f.Token(dbtest.User(t, f.DB, "editor@example.org", "", &editor.ID))

	t.Run("editor is refused", func(t *testing.T) {
		resp := f.Do(http.MethodGet, user.Path, nil, editorToken)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, handler.CodeUnauthorized, webtest.ErrorCode(t, resp))
	})

	t.Run("list hides password hashes", func(t *testing.T) {
		resp := f.Do(http.MethodGet, user.Path, nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := webtest.Body(t, resp)
		assert.Contains(t, body, "editor@example.org")
		assert.NotContains(t, body, "argon2id")
	})

	var created models.User

	t.Run("create", func(t *testing.T) {
		resp := f.Do(http.MethodPost, user.Path, map[string]any{
			"email": " New@Example.org ", "username": "newbie", "password": "longenough", "roleId": editor.ID,
		}, adminToken)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		webtest.Decode(t, resp, &created)
		assert.Equal(t, "new@example.org", created.Email)
		require.NotNil(t, created.RoleID)
		assert.Equal(t, editor.ID, *created.RoleID)
		assert.True(t, created.Active)
	})

	t.Run("create with taken email", func(t *testing.T) {
		resp := f.Do(http.MethodPost, user.Path, map[string]any{
			"email": "new@example.org", "username": "other", "password": "longenough",
		}, adminToken)
		require.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("create with unknown role", func(t *testing.T) {
		resp := f.Do(http.MethodPost, user.Path, map[string]any{
			"email": "x@example.org", "username": "x", "password": "longenough", "roleId": 999,
		}, adminToken)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("create reports missing fields", func(t *testing.T) {
		resp := f.Do(http.MethodPost, user.Path, map[string]any{"email": "y@example.org"}, adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body handler.ErrorBody
		webtest.Decode(t, resp, &body)
		assert.Equal(t, []string{"username", "password"}, body.Fields)
	})

	t.Run("update", func(t *testing.T) {
		resp := f.Do(http.MethodPut, user.Path, map[string]any{
			"id": created.ID, "name": "New Member", "roleId": admin.ID, "active": false,
		}, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.User
		webtest.Decode(t, resp, &updated)
		assert.Equal(t, "New Member", updated.Name)
		assert.Equal(t, admin.ID, *updated.RoleID)
		assert.False(t, updated.Active)
		assert.Equal(t, "newbie", updated.Username)
	})

	t.Run("update without id", func(t *testing.T) {
		resp := f.Do(http.MethodPut, user.Path, map[string]any{"name": "x"}, adminToken)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("self delete is forbidden", func(t *testing.T) {
		resp := f.Do(http.MethodDelete, byID(adminUser.ID), nil, adminToken)
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, handler.CodeForbidden, webtest.ErrorCode(t, resp))
	})

	t.Run("delete", func(t *testing.T) {
		resp := f.Do(http.MethodDelete, byID(created.ID), nil, adminToken)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = f.Do(http.MethodDelete, byID(created.ID), nil, adminToken)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
