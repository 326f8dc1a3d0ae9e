package newsletter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
)

func TestSubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	first, err := Subscribe(ctx, db, " Reader@Example.org ")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.org", first.Email)
	assert.NotEmpty(t, first.Token)
	assert.True(t, first.Active)

	again, err := Subscribe(ctx, db, "reader@example.org")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.Token, again.Token)

	_, err = Subscribe(ctx, db, "not-an-email")
	require.ErrorIs(t, err, controller.ErrValidation)
}

func TestUnsubscribeAndReactivate(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	sub, err := Subscribe(ctx, db, "reader@example.org")
	require.NoError(t, err)

	gone, err := Unsubscribe(ctx, db, sub.Token)
	require.NoError(t, err)
	assert.False(t, gone.Active)

	n, err := CountActive(ctx, db)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = Unsubscribe(ctx, db, "garbage")
	require.ErrorIs(t, err, ErrSubscriberNotFound)

	back, err := Subscribe(ctx, db, "reader@example.org")
	require.NoError(t, err)
	assert.True(t, back.Active)
	assert.Equal(t, sub.Token, back.Token)
}

func TestEachActiveBatch(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	for _, email := range []string{"a@example.org", "b@example.org", "c@example.org", "d@example.org", "e@example.org"} {
		_, err := Subscribe(ctx, db, email)
		require.NoError(t, err)
	}

	off, err := Subscribe(ctx, db, "off@example.org")
	require.NoError(t, err)
	_, err = Unsubscribe(ctx, db, off.Token)
	require.NoError(t, err)

	var sizes []int

	seen := 0

	require.NoError(t, EachActiveBatch(ctx, db, 2, func(batch []models.NewsletterSubscriber) error {
		sizes = append(sizes, len(batch))
		seen += len(batch)

		return nil
	}))

	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, 5, seen)
}

func TestCampaignLifecycle(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	c, err := CreateCampaign(ctx, db, CampaignInput{Subject: "News", Body: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignDraft, c.Status)

	when := time.Now().Add(-time.Minute)
	c, err = UpdateCampaign(ctx, db, c.ID, CampaignInput{Subject: "News", Body: "Hello again", ScheduledAt: &when})
	require.NoError(t, err)
	assert.Equal(t, models.CampaignScheduled, c.Status)

	due, err := DueCampaigns(ctx, db, time.Now())
	require.NoError(t, err)
	assert.Equal(t, []uint{c.ID}, due)

	claimed, err := ClaimCampaign(ctx, db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSending, claimed.Status)

	_, err = ClaimCampaign(ctx, db, c.ID)
	require.ErrorIs(t, err, ErrCampaignLocked)

	_, err = UpdateCampaign(ctx, db, c.ID, CampaignInput{Subject: "x", Body: "y"})
	require.ErrorIs(t, err, controller.ErrForbidden)

	require.ErrorIs(t, DeleteCampaign(ctx, db, c.ID), ErrCampaignLocked)

	require.NoError(t, FinishCampaign(ctx, db, c.ID, 3, 1))

	done, err := GetCampaign(ctx, db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSent, done.Status)
	assert.Equal(t, 3, done.Recipients)
	assert.Equal(t, 1, done.Failures)
	assert.NotNil(t, done.SentAt)

	due, err = DueCampaigns(ctx, db, time.Now())
	require.NoError(t, err)
	assert.Empty(t, due)

	require.NoError(t, DeleteCampaign(ctx, db, c.ID))
	_, err = GetCampaign(ctx, db, c.ID)
	require.ErrorIs(t, err, ErrCampaignNotFound)
}

func TestFinishWithoutRecipientsFails(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	c, err := CreateCampaign(ctx, db, CampaignInput{Subject: "News", Body: "Hello"})
	require.NoError(t, err)

	require.NoError(t, FinishCampaign(ctx, db, c.ID, 0, 2))

	got, err := GetCampaign(ctx, db, c.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignFailed, got.Status)
}
