// Package contacts serves the admin api of the contact form inbox.
package contacts

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the inbox api.
const Path = handler.AdminAPIPath + "/contacts"

// Service is the inbox handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the inbox handler.
var Handler = Service{}

type readBody struct {
	Read bool `json:"read"`
}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db

	router := app.Group(Path, env.Auth.RequireMenu(menu.Contacts))
	router.Get(handler.RootPath, s.List)
	router.Put("/:id/read", s.MarkRead)
	router.Delete("/:id", s.Delete)

	return nil
}

// List returns the messages, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	msgs, err := contentctl.Contacts.List(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(msgs)
}

// MarkRead flags a message as read or unread.
func (s *Service) MarkRead(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	body := readBody{Read: true}
	if len(c.Body()) > 0 {
		if err := handler.Bind(c, &body); err != nil {
			return err
		}
	}

	if err := contentctl.MarkContactRead(c.UserContext(), s.db, id, body.Read); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a message.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := contentctl.Contacts.Delete(c.UserContext(), s.db, id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}
