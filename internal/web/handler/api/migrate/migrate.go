// Package migrate serves the one-shot role migration.
package migrate

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	rolectl "github.com/jesite/jesite/internal/db/controller/role"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the migration endpoint.
const Path = handler.APIPath + "/migrate-roles"

// Service is the role migration handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the role migration handler.
var Handler = Service{}

// Init registers the route.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db

	app.Post(Path, env.Auth.RequireAdmin(), s.Post)

	return nil
}

// Post moves every user without a role onto the administrator role. Running it again is harmless.
func (s *Service) Post(c *fiber.Ctx) error {
	report, err := rolectl.MigrateRoles(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Str("by", auth.CallerFrom(c).User.Email).Int64("users", report.MigratedUsers).Msg("roles migrated")

	return c.JSON(report)
}
