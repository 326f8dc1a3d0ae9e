// Package webtest builds fiber apps around a migrated in-memory database for handler tests.
package webtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/newsletter"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/session"
)

// Views is a fiber views engine writing the template name followed by the data as json.
type Views struct{}

// Load implements fiber.Views.
func (Views) Load() error { return nil }

// Render implements fiber.Views.
func (Views) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	out, err := json.Marshal(data)
	if err != nil {
		return err //nolint:wrapcheck
	}

	_, err = fmt.Fprintf(w, "%s %s", name, out)

	return err //nolint:wrapcheck
}

// Fixture is an app with the handlers under test mounted.
type Fixture struct {
	t      testing.TB
	App    *fiber.App
	DB     *gorm.DB
	Config *config.Config
	Env    *handler.Env
}

// Config returns the configuration used by New.
func Config() *config.Config {
	return &config.Config{
		Title: "Test JE",
		Webserver: config.Webserver{
			Port: 3000,
			URL:  "http://localhost:3000",
		},
	}
}

// New mounts services on an app sharing one in-memory database. Sessions are signed with a
// test secret and revoked in memory; campaigns are logged instead of mailed.
func New(t testing.TB, services ...handler.Service) *Fixture {
	t.Helper()

	db := dbtest.New(t)
	cfg := Config()

	sessions, err := session.New(fibersession.New().Storage)
	require.NoError(t, err)

	env := &handler.Env{
		Auth:     auth.NewService(db),
		Signer:   auth.NewSigner("s3cr3t", time.Hour, "test"),
		Sessions: sessions,
		Sender:   newsletter.NewSender(db, newsletter.LogMailer{}, cfg.Webserver.URL, 10),
	}

	app := fiber.New(fiber.Config{
		Views:        Views{},
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(auth.Session(env.Signer, env.Sessions))

	for _, s := range services {
		require.NoError(t, s.Init(app, cfg, db, env))
	}

	return &Fixture{t: t, App: app, DB: db, Config: cfg, Env: env}
}

// Token signs a session for u.
func (f *Fixture) Token(u *models.User) string {
	f.t.Helper()

	token, _, err := f.Env.Signer.Issue(u)
	require.NoError(f.t, err)

	return token
}

// Do sends a request with body encoded as json, authenticated with token when it is set.
func (f *Fixture) Do(method, path string, body any, token string) *http.Response {
	f.t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)

	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	return f.Send(req)
}

// Send runs req against the app.
func (f *Fixture) Send(req *http.Request) *http.Response {
	f.t.Helper()

	resp, err := f.App.Test(req, -1)
	require.NoError(f.t, err)

	f.t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// Decode reads the json body of resp into v.
func Decode(t testing.TB, resp *http.Response, v any) {
	t.Helper()

	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// Body returns the body of resp.
func Body(t testing.TB, resp *http.Response) string {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(raw)
}

// ErrorCode returns the code of a json error body.
func ErrorCode(t testing.TB, resp *http.Response) string {
	t.Helper()

	var body handler.ErrorBody
	Decode(t, resp, &body)

	return body.Code
}
