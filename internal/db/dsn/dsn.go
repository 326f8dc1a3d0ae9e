// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/jesite/jesite/internal/config"
)

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(cfg)
	case config.EngineSQLite:
		return SQLite(cfg)
	default:
		return MySQL(cfg)
	}
}

// MySQL builds a go-sql-driver DSN: user:password@tcp(host:port)/name?extras.
func MySQL(cfg *config.Config) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
		cfg.DB.Extras,
	)
}

// Postgres builds a pgx keyword/value DSN. Extras are appended verbatim, e.g. "sslmode=disable".
func Postgres(cfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
	)

	if extras := strings.TrimSpace(cfg.DB.Extras); extras != "" {
		out += " " + extras
	}

	return out
}

// PostgresURL builds the postgres:// connection URI used by the session storage.
func PostgresURL(cfg *config.Config) string {
	out := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Host,
		cfg.DB.Port,
		cfg.DB.Name,
	)

	if cfg.DB.Extras != "" {
		out += "?" + strings.ReplaceAll(strings.TrimSpace(cfg.DB.Extras), " ", "&")
	}

	return out
}

// SQLite returns the database file, enabling foreign keys.
func SQLite(cfg *config.Config) string {
	path := cfg.DB.Path
	if path == "" {
		path = cfg.DB.Name + ".db"
	}

	return path + "?_pragma=foreign_keys(1)"
}
