// Package user serves the user management api. Every route needs an administrator.
package user

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller"
	userctl "github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the user api.
const Path = handler.APIPath + "/users"

// Service is the user api handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the user api handler.
var Handler = Service{}

type updateBody struct {
	ID uint64 `json:"id"`
	userctl.UpdateInput
}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Use(env.Auth.RequireAdmin())
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
		router.Put(handler.RootPath, s.Put)
		router.Delete(handler.RootPath, s.Delete)
	})

	return nil
}

// Get lists the users. Password hashes never leave the server.
func (s *Service) Get(c *fiber.Ctx) error {
	users, err := userctl.List(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(users)
}

// Post creates a user.
func (s *Service) Post(c *fiber.Ctx) error {
	var in userctl.CreateInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	u, err := userctl.Create(c.UserContext(), s.db, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Put applies a partial update to the user named by the id of the body.
func (s *Service) Put(c *fiber.Ctx) error {
	var in updateBody
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if in.ID == 0 {
		return controller.NewValidationError("missing required field", "id")
	}

	u, err := userctl.Update(c.UserContext(), s.db, in.ID, in.UpdateInput)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(u)
}

// Delete removes the user named by ?id=. Callers can not delete themselves.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.RequireQueryID(c, "id")
	if err != nil {
		return err
	}

	if err := userctl.Delete(c.UserContext(), s.db, uint64(id), auth.CallerFrom(c).User.ID); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}
