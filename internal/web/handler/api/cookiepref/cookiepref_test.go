package cookiepref_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/handler/api/cookiepref"
	"github.com/jesite/jesite/internal/web/webtest"
)

func TestCookiePreferenceAPI(t *testing.T) {
	f := webtest.New(t, &cookiepref.Service{})

	u := dbtest.User(t, f.DB, "visitor@example.org", "", nil)
	token := f.Token(u)

	t.Run("unknown cookie is null", func(t *testing.T) {
		resp := f.Do(http.MethodGet, cookiepref.Path+"?cookieId=c-1", nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", webtest.Body(t, resp))
	})

	t.Run("anonymous lookup needs a cookie id", func(t *testing.T) {
		resp := f.Do(http.MethodGet, cookiepref.Path, nil, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, handler.CodeInvalidInput, webtest.ErrorCode(t, resp))
	})

	t.Run("anonymous choice", func(t *testing.T) {
		resp := f.Do(http.MethodPost, cookiepref.Path,
			map[string]any{"cookieId": "c-1", "necessary": false, "analytics": true}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var pref models.CookiePreference
		webtest.Decode(t, resp, &pref)
		assert.True(t, pref.Necessary)
		assert.True(t, pref.Analytics)
		assert.Nil(t, pref.UserID)
	})

	t.Run("signed in choice links the user", func(t *testing.T) {
		resp := f.Do(http.MethodPost, cookiepref.Path,
			map[string]any{"cookieId": "c-2", "marketing": true}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var pref models.CookiePreference
		webtest.Decode(t, resp, &pref)
		require.NotNil(t, pref.UserID)
		assert.Equal(t, u.ID, *pref.UserID)
	})

	t.Run("user lookup without cookie id", func(t *testing.T) {
		resp := f.Do(http.MethodGet, cookiepref.Path, nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var pref models.CookiePreference
		webtest.Decode(t, resp, &pref)
		assert.Equal(t, "c-2", pref.CookieID)
		assert.True(t, pref.Marketing)
	})

	t.Run("missing cookie id on save", func(t *testing.T) {
		resp := f.Do(http.MethodPost, cookiepref.Path, map[string]any{"analytics": true}, "")
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
