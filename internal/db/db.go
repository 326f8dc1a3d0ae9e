// Package db opens the gorm connection for the configured engine and migrates the schema.
package db

import (
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/dsn"
	"github.com/jesite/jesite/internal/db/models"
	gormlog "github.com/jesite/jesite/internal/logger/adapter/gorm"
)

const slowQueryThreshold = 200 * time.Millisecond

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg))
	case config.EngineSQLite:
		return sqlite.Open(dsn.SQLite(cfg))
	default:
		return mysql.Open(dsn.MySQL(cfg))
	}
}

// Open connects to the configured database.
func Open(cfg *config.Config) (*gorm.DB, error) {
	conn, err := gorm.Open(Dialector(cfg), &gorm.Config{
		Logger:         gormlog.New(slowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	return conn, nil
}

// Migrate creates or updates every table.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
