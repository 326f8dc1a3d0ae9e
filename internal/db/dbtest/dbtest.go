// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jesite/jesite/internal/db"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

// New returns a migrated in-memory database with foreign keys enabled.
// The pool holds a single connection: every connection to ":memory:" is a separate database,
// and concurrent callers queue on it like on a row lock.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(conn), "failed to migrate test database")

	return conn
}

// Role inserts a role holding the given menu items.
func Role(t testing.TB, conn *gorm.DB, name string, system bool, items ...menu.Item) *models.Role {
	t.Helper()

	role := &models.Role{Name: name, IsSystem: system}
	require.NoError(t, conn.Create(role).Error)

	for _, item := range items {
		require.NoError(t, conn.Create(&models.Permission{RoleID: role.ID, MenuItem: string(item)}).Error)
	}

	return role
}

// User inserts an active user with password "secret".
func User(t testing.TB, conn *gorm.DB, email, legacyRole string, roleID *uint) *models.User {
	t.Helper()

	hash, err := models.HashPassword("secret")
	require.NoError(t, err)

	user := &models.User{
		Email:      email,
		Username:   email,
		Password:   hash,
		LegacyRole: legacyRole,
		RoleID:     roleID,
		Active:     true,
	}
	require.NoError(t, conn.Create(user).Error)

	return user
}

// MenuItems returns the stored menu items of a role in insertion order.
func MenuItems(t testing.TB, conn *gorm.DB, roleID uint) []string {
	t.Helper()

	var items []string
	require.NoError(t, conn.Model(&models.Permission{}).
		Where("role_id = ?", roleID).
		Order("id").
		Pluck("menu_item", &items).Error)

	return items
}
