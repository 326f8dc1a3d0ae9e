// Package settings serves the site settings of the admin area.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller/site"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the settings api.
const Path = handler.AdminAPIPath + "/settings"

// Service is the settings handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the settings handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.cfg = cfg
	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Use(env.Auth.RequireMenu(menu.Settings))
		router.Get(handler.RootPath, s.Get)
		router.Put(handler.RootPath, s.Put)
	})

	return nil
}

// Get returns the stored settings, the defaults when none were saved.
func (s *Service) Get(c *fiber.Ctx) error {
	settings, err := site.Load(c.UserContext(), s.db, site.Defaults(s.cfg.Title))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(settings)
}

// Put replaces the settings.
func (s *Service) Put(c *fiber.Ctx) error {
	var in site.Settings
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if err := site.Save(c.UserContext(), s.db, in); err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(in)
}
