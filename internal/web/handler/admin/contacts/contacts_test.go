package contacts_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler/admin/contacts"
	"github.com/jesite/jesite/internal/web/webtest"
)

func TestContactsAPI(t *testing.T) {
	ctx := context.Background()
	f := webtest.New(t, &contacts.Service{})

	staff := dbtest.Role(t, f.DB, "staff", false, menu.Contacts)
	editor := dbtest.Role(t, f.DB, "editor", false, menu.Blog)
	token := f.Token(dbtest.User(t, f.DB, "staff@example.org", "", &staff.ID))
	editorToken := f.Token(dbtest.User(t, f.DB, "editor@example.org", "", &editor.ID))

	msg := &models.ContactMessage{Name: "Ada", Email: "ada@example.org", Message: "We need a market analysis"}
	require.NoError(t, contentctl.Contacts.Create(ctx, f.DB, msg))

	item := contacts.Path + "/" + strconv.FormatUint(uint64(msg.ID), 10)

	resp := f.Do(http.MethodGet, contacts.Path, nil, editorToken)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.Do(http.MethodGet, contacts.Path, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var listed []models.ContactMessage
	webtest.Decode(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].Read)

	unread := func() int64 {
		n, err := contentctl.UnreadContacts(ctx, f.DB)
		require.NoError(t, err)

		return n
	}

	resp = f.Do(http.MethodPut, item+"/read", nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, unread())

	resp = f.Do(http.MethodPut, item+"/read", map[string]bool{"read": false}, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(1), unread())

	resp = f.Do(http.MethodPut, contacts.Path+"/999/read", nil, token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = f.Do(http.MethodDelete, item, nil, token)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Zero(t, unread())
}
