// Package content serves the admin api of the editable site content.
//
// Every content type gets the same five routes below its own path, gated by the
// menu item of its admin section.
package content

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
)

// Service is the content admin handler service.
type Service struct{}

// Handler is the content admin handler.
var Handler = Service{}

// Init registers the routes of every content type.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	mount := func(item menu.Item, register func(fiber.Router)) {
		router := app.Group(Path(item), env.Auth.RequireMenu(item))
		register(router)
	}

	mount(menu.Home, func(r fiber.Router) { Register(r, db, contentctl.HomeSections) })
	mount(menu.Services, func(r fiber.Router) { Register(r, db, contentctl.Services) })
	mount(menu.Projects, func(r fiber.Router) { Register(r, db, contentctl.Projects) })
	mount(menu.Blog, func(r fiber.Router) { Register(r, db, contentctl.BlogPosts) })
	mount(menu.Team, func(r fiber.Router) { Register(r, db, contentctl.TeamMembers) })
	mount(menu.Recruitment, func(r fiber.Router) { Register(r, db, contentctl.JobOpenings) })
	mount(menu.Policies, func(r fiber.Router) { Register(r, db, contentctl.Policies) })

	return nil
}

// Path returns the api path of the admin section item.
func Path(item menu.Item) string {
	return handler.AdminAPIPath + "/" + item.String()
}

// Register adds list, get, create, update and delete routes for store to router.
func Register[T any](router fiber.Router, db *gorm.DB, store contentctl.Store[T]) {
	router.Get(handler.RootPath, func(c *fiber.Ctx) error {
		rows, err := store.List(c.UserContext(), db)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return c.JSON(rows)
	})

	router.Get("/:id", func(c *fiber.Ctx) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}

		row, err := store.Get(c.UserContext(), db, id)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return c.JSON(row)
	})

	router.Post(handler.RootPath, func(c *fiber.Ctx) error {
		row := new(T)
		if err := handler.Bind(c, row); err != nil {
			return err
		}

		if err := store.Create(c.UserContext(), db, row); err != nil {
			return err //nolint:wrapcheck
		}

		return c.Status(fiber.StatusCreated).JSON(row)
	})

	router.Put("/:id", func(c *fiber.Ctx) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}

		row := new(T)
		if err := handler.Bind(c, row); err != nil {
			return err
		}

		if err := store.Update(c.UserContext(), db, id, row); err != nil {
			return err //nolint:wrapcheck
		}

		return c.JSON(row)
	})

	router.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := handler.ParamID(c, "id")
		if err != nil {
			return err
		}

		if err := store.Delete(c.UserContext(), db, id); err != nil {
			return err //nolint:wrapcheck
		}

		return c.SendStatus(fiber.StatusNoContent)
	})
}
