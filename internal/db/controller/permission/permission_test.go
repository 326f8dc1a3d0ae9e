package permission

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/dbtest"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

func TestNilDatabase(t *testing.T) {
	ctx := context.Background()

	_, err := ListByRole(ctx, nil, 1)
	require.ErrorIs(t, err, controller.ErrDBNil)

	_, err = ListAll(ctx, nil)
	require.ErrorIs(t, err, controller.ErrDBNil)

	_, err = Replace(ctx, nil, 1, nil)
	require.ErrorIs(t, err, controller.ErrDBNil)

	require.ErrorIs(t, Revoke(ctx, nil, 1), controller.ErrDBNil)
	require.ErrorIs(t, EnsureMandatory(ctx, nil, 1, menu.Dashboard), controller.ErrDBNil)
}

func TestGrant(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "editor", false, menu.Blog)

	testCases := []struct {
		name          string
		roleID        uint
		item          menu.Item
		expectedError error
	}{
		{
			name:   "new grant",
			roleID: role.ID,
			item:   menu.Projects,
		},
		{
			name:          "duplicate pair",
			roleID:        role.ID,
			item:          menu.Blog,
			expectedError: ErrPermissionExists,
		},
		{
			name:          "unknown role",
			roleID:        role.ID + 100,
			item:          menu.Blog,
			expectedError: ErrRoleNotFound,
		},
		{
			name:          "unknown menu item",
			roleID:        role.ID,
			item:          menu.Item("reports"),
			expectedError: controller.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			perm, err := Grant(ctx, db, tc.roleID, tc.item)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, perm)

				return
			}

			require.NoError(t, err)
			assert.NotZero(t, perm.ID)
			assert.Equal(t, string(tc.item), perm.MenuItem)
		})
	}

	assert.Equal(t, []string{"blog", "projects"}, dbtest.MenuItems(t, db, role.ID))
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "editor", false, menu.Blog, menu.Team)

	perms, err := ListByRole(ctx, db, role.ID)
	require.NoError(t, err)
	require.Len(t, perms, 2)

	require.NoError(t, Revoke(ctx, db, perms[0].ID))
	require.ErrorIs(t, Revoke(ctx, db, perms[0].ID), ErrPermissionNotFound)
	require.ErrorIs(t, Revoke(ctx, db, perms[0].ID), controller.ErrNotFound)

	assert.Equal(t, []string{"team"}, dbtest.MenuItems(t, db, role.ID))
}

func TestListAllJoinsRole(t *testing.T) {
	db := dbtest.New(t)
	editor := dbtest.Role(t, db, "editor", false, menu.Blog)
	dbtest.Role(t, db, "hr", false, menu.Recruitment, menu.Team)

	perms, err := ListAll(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, perms, 3)

	require.NotNil(t, perms[0].Role)
	assert.Equal(t, editor.ID, perms[0].RoleID)
	assert.Equal(t, "editor", perms[0].Role.Name)
	assert.Equal(t, "hr", perms[2].Role.Name)
}

func TestReplace(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name          string
		initial       []menu.Item
		replace       []menu.Item
		expected      []string
		expectedError error
	}{
		{
			name:     "replace drops what is not listed",
			initial:  []menu.Item{menu.Blog, menu.Projects, menu.Team},
			replace:  []menu.Item{menu.Contacts},
			expected: []string{"contacts"},
		},
		{
			name:     "empty list leaves no grants",
			initial:  []menu.Item{menu.Blog},
			replace:  nil,
			expected: nil,
		},
		{
			name:     "duplicates are collapsed",
			replace:  []menu.Item{menu.Blog, menu.Blog, menu.Team},
			expected: []string{"blog", "team"},
		},
		{
			name:          "unknown item keeps previous set",
			initial:       []menu.Item{menu.Blog},
			replace:       []menu.Item{menu.Team, menu.Item("nope")},
			expected:      []string{"blog"},
			expectedError: controller.ErrValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := dbtest.New(t)
			role := dbtest.Role(t, db, "editor", false, tc.initial...)

			_, err := Replace(ctx, db, role.ID, tc.replace)
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)
			}

			got := dbtest.MenuItems(t, db, role.ID)
			if len(tc.expected) == 0 {
				assert.Empty(t, got)

				return
			}

			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestReplaceUnknownRole(t *testing.T) {
	db := dbtest.New(t)

	_, err := Replace(context.Background(), db, 42, []menu.Item{menu.Blog})
	require.ErrorIs(t, err, ErrRoleNotFound)
	require.ErrorIs(t, err, controller.ErrNotFound)
}

func TestReplaceTwiceKeepsOnlyLastSet(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "editor", false)

	_, err := Replace(ctx, db, role.ID, []menu.Item{menu.Blog, menu.Projects, menu.Team})
	require.NoError(t, err)

	_, err = Replace(ctx, db, role.ID, []menu.Item{menu.Contacts})
	require.NoError(t, err)

	assert.Equal(t, []string{"contacts"}, dbtest.MenuItems(t, db, role.ID))
}

func TestReplaceRollsBackWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "editor", false, menu.Blog, menu.Projects)

	errInjected := errors.New("injected insert failure")

	// fails every insert into permissions after the delete step already ran
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("test:fail_permission_insert", func(tx *gorm.DB) {
			if tx.Statement.Table == "permissions" {
				_ = tx.AddError(errInjected)
			}
		}))

	_, err := Replace(ctx, db, role.ID, []menu.Item{menu.Team})
	require.ErrorIs(t, err, errInjected)

	require.NoError(t, db.Callback().Create().Remove("test:fail_permission_insert"))

	assert.Equal(t, []string{"blog", "projects"}, dbtest.MenuItems(t, db, role.ID))
}

func TestReplaceIssuesRollbackOnMySQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	defer func() { _ = sqlDB.Close() }()

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	errInsert := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `id` FROM `roles`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `permissions`")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `permissions`")).
		WillReturnError(errInsert)
	mock.ExpectRollback()

	_, err = Replace(context.Background(), db, 7, []menu.Item{menu.Blog, menu.Team})
	require.ErrorIs(t, err, errInsert)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConcurrentReplaceEndsInOneIntendedSet(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "editor", false)

	sets := [][]menu.Item{
		{menu.Blog, menu.Projects, menu.Team},
		{menu.Contacts, menu.Newsletter},
	}

	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)

		go func(items []menu.Item) {
			defer wg.Done()

			_, err := Replace(ctx, db, role.ID, items)
			assert.NoError(t, err)
		}(sets[i%2])
	}

	wg.Wait()

	got := dbtest.MenuItems(t, db, role.ID)
	assert.Contains(t, [][]string{
		{"blog", "projects", "team"},
		{"contacts", "newsletter"},
	}, got)
}

func TestEnsureMandatoryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	role := dbtest.Role(t, db, "admin", true, menu.Blog, menu.Dashboard)

	var wg sync.WaitGroup

	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			assert.NoError(t, EnsureMandatory(ctx, db, role.ID, menu.Mandatory()...))
		}()
	}

	wg.Wait()

	var count int64
	require.NoError(t, db.Model(&models.Permission{}).Where("role_id = ?", role.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)
	assert.ElementsMatch(t, []string{"blog", "dashboard", "settings"}, dbtest.MenuItems(t, db, role.ID))
}
