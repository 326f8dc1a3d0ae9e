// Package logout ends the session of the admin area.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/handler/login"
	"github.com/jesite/jesite/internal/web/session"
)

// Path of the logout page.
const Path = handler.RootPath + "logout"

// Service is the logout handler service.
type Service struct {
	sessions *session.Store
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	if env.Sessions == nil {
		return handler.ErrNilDependency
	}

	s.sessions = env.Sessions

	// logout route (outside auth middleware protection)
	app.Get(Path, s.Logout)
	app.Post(Path, s.Logout)

	return nil
}

// Logout revokes the session token, clears the cookie and returns to the login page.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(auth.ClaimsFrom(c)); err != nil {
		log.Error().Err(err).Msg("failed to revoke session")
	}

	c.ClearCookie(auth.CookieName)

	return c.Redirect(login.Path)
}
