package cookiepref

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
)

func rows(t *testing.T, db *gorm.DB) []models.CookiePreference {
	t.Helper()

	var out []models.CookiePreference
	require.NoError(t, db.Order("id").Find(&out).Error)

	return out
}

func TestUpsertTwiceKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	_, err := Upsert(ctx, db, Input{CookieID: "C", Analytics: true, Marketing: true})
	require.NoError(t, err)

	got, err := Upsert(ctx, db, Input{CookieID: "C", Functional: true})
	require.NoError(t, err)

	stored := rows(t, db)
	require.Len(t, stored, 1)
	assert.Equal(t, got.ID, stored[0].ID)
	assert.True(t, stored[0].Necessary)
	assert.False(t, stored[0].Analytics)
	assert.False(t, stored[0].Marketing)
	assert.True(t, stored[0].Functional)
}

func TestUpsertForcesNecessary(t *testing.T) {
	got, err := Upsert(context.Background(), dbtest.New(t), Input{CookieID: "C", Necessary: false})
	require.NoError(t, err)
	assert.True(t, got.Necessary)
}

func TestUpsertValidation(t *testing.T) {
	testCases := []struct {
		name     string
		cookieID string
	}{
		{name: "blank cookie id", cookieID: "  "},
		{name: "cookie id too long", cookieID: strings.Repeat("c", 101)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := dbtest.New(t)

			_, err := Upsert(context.Background(), db, Input{CookieID: tc.cookieID})

			var verr *controller.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"cookieId"}, verr.Fields)
			assert.Empty(t, rows(t, db))
		})
	}
}

func TestUpsertMatchesUserAcrossCookieIDs(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	u := dbtest.User(t, db, "user@example.org", "", nil)

	first, err := Upsert(ctx, db, Input{CookieID: "C1", UserID: &u.ID, Analytics: true})
	require.NoError(t, err)

	second, err := Upsert(ctx, db, Input{CookieID: "C2", UserID: &u.ID, Marketing: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	stored := rows(t, db)
	require.Len(t, stored, 1)
	assert.Equal(t, "C2", stored[0].CookieID)
	require.NotNil(t, stored[0].UserID)
	assert.Equal(t, u.ID, *stored[0].UserID)
	assert.False(t, stored[0].Analytics)
	assert.True(t, stored[0].Marketing)
}

func TestUpsertUserRowTakesOverAnonymousCookie(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	u := dbtest.User(t, db, "user@example.org", "", nil)

	linked, err := Upsert(ctx, db, Input{CookieID: "C1", UserID: &u.ID})
	require.NoError(t, err)

	_, err = Upsert(ctx, db, Input{CookieID: "C2", Analytics: true})
	require.NoError(t, err)
	require.Len(t, rows(t, db), 2)

	got, err := Upsert(ctx, db, Input{CookieID: "C2", UserID: &u.ID, Functional: true})
	require.NoError(t, err)

	stored := rows(t, db)
	require.Len(t, stored, 1)
	assert.Equal(t, linked.ID, got.ID)
	assert.Equal(t, "C2", stored[0].CookieID)
	assert.True(t, stored[0].Functional)
}

func TestFindFallsBackToUser(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	u := dbtest.User(t, db, "user@example.org", "", nil)

	_, err := Upsert(ctx, db, Input{CookieID: "C1", UserID: &u.ID, Analytics: true})
	require.NoError(t, err)

	got, err := Find(ctx, db, "C2", &u.ID)
	require.NoError(t, err)
	assert.Equal(t, "C1", got.CookieID)
	assert.True(t, got.Analytics)

	_, err = Find(ctx, db, "C2", nil)
	require.ErrorIs(t, err, ErrPreferenceNotFound)

	byCookie, err := Find(ctx, db, "C1", nil)
	require.NoError(t, err)
	assert.Equal(t, got.ID, byCookie.ID)
}

func TestConcurrentUpsertSameCookie(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func(analytics bool) {
			defer wg.Done()

			_, err := Upsert(ctx, db, Input{CookieID: "C", Analytics: analytics})
			assert.NoError(t, err)
		}(i%2 == 0)
	}

	wg.Wait()

	assert.Len(t, rows(t, db), 1)
}
