package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
)

func TestServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	svc := &models.Service{Title: "Market research", Slug: "market-research", Position: 2, Published: true}
	require.NoError(t, Services.Create(ctx, db, svc))
	assert.NotZero(t, svc.ID)

	draft := &models.Service{Title: "Draft", Slug: "draft", Position: 1}
	require.NoError(t, Services.Create(ctx, db, draft))

	err := Services.Create(ctx, db, &models.Service{Title: "Copy", Slug: "market-research"})
	require.ErrorIs(t, err, controller.ErrConflict)

	all, err := Services.List(ctx, db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "draft", all[0].Slug)

	public, err := Services.Public(ctx, db)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "market-research", public[0].Slug)

	_, err = Services.BySlug(ctx, db, "draft")
	require.ErrorIs(t, err, controller.ErrNotFound)

	update := &models.Service{Title: "Market research & analysis", Slug: "market-research"}
	require.NoError(t, Services.Update(ctx, db, svc.ID, update))
	assert.Equal(t, svc.ID, update.ID)
	assert.False(t, update.Published)
	assert.Equal(t, svc.CreatedAt.Unix(), update.CreatedAt.Unix())

	err = Services.Update(ctx, db, svc.ID, &models.Service{Title: "x", Slug: "draft"})
	require.ErrorIs(t, err, controller.ErrConflict)

	err = Services.Update(ctx, db, 999, &models.Service{Title: "x", Slug: "x"})
	require.ErrorIs(t, err, controller.ErrNotFound)

	require.NoError(t, Services.Delete(ctx, db, svc.ID))
	require.ErrorIs(t, Services.Delete(ctx, db, svc.ID), controller.ErrNotFound)

	n, err := Services.Count(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCreateValidates(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	err := Projects.Create(ctx, db, &models.Project{Title: "No slug", ImageURL: "not a url"})

	var verr *controller.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ElementsMatch(t, []string{"slug", "imageUrl"}, verr.Fields)
}

func TestBlogPostPublishedAtIsStamped(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	post := &models.BlogPost{Title: "Hello", Slug: "hello", Published: true}
	require.NoError(t, BlogPosts.Create(ctx, db, post))
	require.NotNil(t, post.PublishedAt)

	got, err := BlogPosts.BySlug(ctx, db, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)
}

func TestContacts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	msg := &models.ContactMessage{Name: "Ada", Email: "ada@example.org", Message: "Hi"}
	require.NoError(t, Contacts.Create(ctx, db, msg))

	unread, err := UnreadContacts(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	require.NoError(t, MarkContactRead(ctx, db, msg.ID, true))
	require.NoError(t, MarkContactRead(ctx, db, msg.ID, true))
	require.ErrorIs(t, MarkContactRead(ctx, db, msg.ID+1, true), controller.ErrNotFound)

	unread, err = UnreadContacts(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
