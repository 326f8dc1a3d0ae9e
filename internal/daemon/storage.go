package daemon

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"

	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/dsn"
)

// SessionTable holds revoked sessions on the sql engines.
const SessionTable = "sessions"

// SessionStorage returns the store of revoked sessions. MySQL and PostgreSQL keep them in
// SessionTable of the application database; sqlite installs keep them in memory.
func SessionStorage(cfg *config.Config) fiber.Storage {
	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         SessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.PostgresURL(cfg),
			Table:         SessionTable,
		})
	default:
		return session.New().Storage
	}
}
