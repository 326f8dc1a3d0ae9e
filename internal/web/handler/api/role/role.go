// Package role serves the role management api.
package role

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller"
	rolectl "github.com/jesite/jesite/internal/db/controller/role"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the role api.
const Path = handler.APIPath + "/roles"

// Service is the role api handler service.
type Service struct {
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the role api handler.
var Handler = Service{}

type updateBody struct {
	ID uint `json:"id"`
	rolectl.Input
}

// Init registers the routes. Every route needs a session, everything but reading
// the caller's own role needs an administrator.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db
	s.auth = env.Auth

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.auth.RequireSession(), s.Get)
		router.Post(handler.RootPath, s.auth.RequireAdmin(), s.Post)
		router.Put(handler.RootPath, s.auth.RequireAdmin(), s.Put)
		router.Delete(handler.RootPath, s.auth.RequireAdmin(), s.Delete)
	})

	return nil
}

// Get lists the roles, or returns the one named by ?id=.
func (s *Service) Get(c *fiber.Ctx) error {
	caller := auth.CallerFrom(c)

	id, present, err := handler.QueryID(c, "id")
	if err != nil {
		return err
	}

	if !present {
		if !caller.IsAdmin() {
			return auth.ErrUnauthorized
		}

		roles, err := rolectl.List(c.UserContext(), s.db)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return c.JSON(roles)
	}

	if !s.auth.CanReadRolePermissions(caller, id) {
		return auth.ErrUnauthorized
	}

	r, err := rolectl.Get(c.UserContext(), s.db, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(r)
}

// Post creates a role.
func (s *Service) Post(c *fiber.Ctx) error {
	var in rolectl.Input
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	r, err := rolectl.Create(c.UserContext(), s.db, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(r)
}

// Put updates the role named by the id of the body.
func (s *Service) Put(c *fiber.Ctx) error {
	var in updateBody
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if in.ID == 0 {
		return controller.NewValidationError("missing required field", "id")
	}

	r, err := rolectl.Update(c.UserContext(), s.db, in.ID, in.Input)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(r)
}

// Delete removes the role named by ?id=.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.RequireQueryID(c, "id")
	if err != nil {
		return err
	}

	if err := rolectl.Delete(c.UserContext(), s.db, id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}
