// Package permission serves the permission api.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller"
	permctl "github.com/jesite/jesite/internal/db/controller/permission"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the permission api.
const Path = handler.APIPath + "/permissions"

// Service is the permission api handler service.
type Service struct {
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the permission api handler.
var Handler = Service{}

type grantBody struct {
	RoleID   uint   `json:"roleId"`
	MenuItem string `json:"menuItem"`
}

type replaceBody struct {
	RoleID    uint     `json:"roleId"`
	MenuItems []string `json:"menuItems"`
}

// Init registers the routes.
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

// Get returns the grants of ?roleId=, or every grant with its role for administrators.
// Reading an administrator role restores its mandatory grants.
func (s *Service) Get(c *fiber.Ctx) error {
	caller := auth.CallerFrom(c)

	roleID, present, err := handler.QueryID(c, "roleId")
	if err != nil {
		return err
	}

	if !present {
		if !caller.IsAdmin() {
			return auth.ErrUnauthorized
		}

		perms, err := permctl.ListAll(c.UserContext(), s.db)
		if err != nil {
			return err //nolint:wrapcheck
		}

		return c.JSON(perms)
	}

	if !s.auth.CanReadRolePermissions(caller, roleID) {
		return auth.ErrUnauthorized
	}

	perms, err := s.auth.RolePermissions(c.UserContext(), roleID)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perms)
}

// Post grants one menu item.
func (s *Service) Post(c *fiber.Ctx) error {
	var in grantBody
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	var fields []string
	if in.RoleID == 0 {
		fields = append(fields, "roleId")
	}

	if in.MenuItem == "" {
		fields = append(fields, "menuItem")
	}

	if len(fields) > 0 {
		return controller.NewValidationError("missing required field", fields...)
	}

	item, err := menu.Parse(in.MenuItem)
	if err != nil {
		return controller.NewValidationError(err.Error(), "menuItem")
	}

	p, err := permctl.Grant(c.UserContext(), s.db, in.RoleID, item)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Put replaces every grant of the role with menuItems.
func (s *Service) Put(c *fiber.Ctx) error {
	var in replaceBody
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	var fields []string
	if in.RoleID == 0 {
		fields = append(fields, "roleId")
	}

	if in.MenuItems == nil {
		fields = append(fields, "menuItems")
	}

	if len(fields) > 0 {
		return controller.NewValidationError("missing required field", fields...)
	}

	items, err := menu.ParseAll(in.MenuItems)
	if err != nil {
		return controller.NewValidationError(err.Error(), "menuItems")
	}

	perms, err := permctl.Replace(c.UserContext(), s.db, in.RoleID, items)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perms)
}

// Delete revokes the grant named by ?id=.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.RequireQueryID(c, "id")
	if err != nil {
		return err
	}

	if err := permctl.Revoke(c.UserContext(), s.db, id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}
