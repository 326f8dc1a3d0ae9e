package site_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	nlctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/web/handler/site"
	"github.com/jesite/jesite/internal/web/webtest"
)

func postForm(f *webtest.Fixture, path string, form url.Values) *http.Response {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	return f.Send(req)
}

func TestPages(t *testing.T) {
	ctx := context.Background()
	f := webtest.New(t, &site.Service{})

	require.NoError(t, contentctl.BlogPosts.Create(ctx, f.DB,
		&models.BlogPost{Title: "Hello", Slug: "hello", Published: true}))
	require.NoError(t, contentctl.BlogPosts.Create(ctx, f.DB,
		&models.BlogPost{Title: "Draft", Slug: "draft"}))
	require.NoError(t, contentctl.Policies.Create(ctx, f.DB,
		&models.Policy{Title: "Privacy", Slug: "privacy", Body: "we keep nothing"}))

	testCases := []struct {
		name         string
		path         string
		wantStatus   int
		wantTemplate string
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "home",
			path:         "/",
			wantStatus:   http.StatusOK,
			wantTemplate: "index",
			wantContains: []string{`"siteName":"Test JE"`, `"slug":"hello"`},
			wantMissing:  []string{`"slug":"draft"`},
		},
		{
			name:         "blog lists published posts",
			path:         "/blog",
			wantStatus:   http.StatusOK,
			wantTemplate: "blog",
			wantContains: []string{`"slug":"hello"`},
			wantMissing:  []string{`"slug":"draft"`},
		},
		{
			name:         "published post",
			path:         "/blog/hello",
			wantStatus:   http.StatusOK,
			wantTemplate: "post",
			wantContains: []string{`"Title":"Hello","URL":"/blog/hello","Active":true`},
		},
		{
			name:         "draft post is hidden",
			path:         "/blog/draft",
			wantStatus:   http.StatusNotFound,
			wantTemplate: "error",
		},
		{
			name:         "policy",
			path:         "/policies/privacy",
			wantStatus:   http.StatusOK,
			wantTemplate: "policy",
			wantContains: []string{"we keep nothing"},
		},
		{
			name:         "unknown policy",
			path:         "/policies/terms",
			wantStatus:   http.StatusNotFound,
			wantTemplate: "error",
		},
		{
			name:         "empty services page",
			path:         "/services",
			wantStatus:   http.StatusOK,
			wantTemplate: "services",
		},
		{
			name:         "team",
			path:         "/team",
			wantStatus:   http.StatusOK,
			wantTemplate: "team",
		},
		{
			name:         "recruitment",
			path:         "/recruitment",
			wantStatus:   http.StatusOK,
			wantTemplate: "recruitment",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.Send(httptest.NewRequest(http.MethodGet, tc.path, nil))
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			body := webtest.Body(t, resp)
			assert.True(t, strings.HasPrefix(body, tc.wantTemplate+" "), body)

			for _, want := range tc.wantContains {
				assert.Contains(t, body, want)
			}

			for _, missing := range tc.wantMissing {
				assert.NotContains(t, body, missing)
			}
		})
	}
}

func TestContact(t *testing.T) {
	ctx := context.Background()
	f := webtest.New(t, &site.Service{})

	resp := f.Do(http.MethodPost, site.ContactPath, map[string]string{
		"name": "Ada", "email": "ada@example.org", "message": "hello",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postForm(f, site.ContactPath, url.Values{
		"name": {"Bob"}, "email": {"bob@example.org"}, "message": {"hi"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?contact=sent", resp.Header.Get(fiber.HeaderLocation))

	resp = f.Do(http.MethodPost, site.ContactPath, map[string]string{"name": "Eve", "email": "not-an-address"}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	n, err := contentctl.Contacts.Count(ctx, f.DB)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	unread, err := contentctl.UnreadContacts(ctx, f.DB)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)
}

func TestNewsletterSubscription(t *testing.T) {
	ctx := context.Background()
	f := webtest.New(t, &site.Service{})

	resp := postForm(f, site.SubscribePath, url.Values{"email": {"reader@example.org"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/?newsletter=subscribed", resp.Header.Get(fiber.HeaderLocation))

	resp = f.Do(http.MethodPost, site.SubscribePath, map[string]string{"email": "reader@example.org"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.Do(http.MethodPost, site.SubscribePath, map[string]string{"email": "nope"}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	active, err := nlctl.CountActive(ctx, f.DB)
	require.NoError(t, err)
	assert.EqualValues(t, 1, active)

	subs, err := nlctl.ListSubscribers(ctx, f.DB)
	require.NoError(t, err)
	require.Len(t, subs, 1)

	resp = f.Send(httptest.NewRequest(http.MethodGet, site.UnsubscribePath+"/"+subs[0].Token, nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := webtest.Body(t, resp)
	assert.True(t, strings.HasPrefix(body, "unsubscribed "), body)
	assert.Contains(t, body, "reader@example.org")

	active, err = nlctl.CountActive(ctx, f.DB)
	require.NoError(t, err)
	assert.Zero(t, active)

	resp = f.Send(httptest.NewRequest(http.MethodGet, site.UnsubscribePath+"/not-a-token", nil))
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}
