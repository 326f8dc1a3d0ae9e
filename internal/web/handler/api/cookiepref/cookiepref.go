// Package cookiepref serves the cookie consent api. It is public; a session, when present,
// links the choices to the user.
package cookiepref

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller"
	prefctl "github.com/jesite/jesite/internal/db/controller/cookiepref"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the cookie preference api.
const Path = handler.APIPath + "/cookie-preferences"

// Service is the cookie preference handler service.
type Service struct {
	db *gorm.DB
}

// Handler is the cookie preference handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

func userID(c *fiber.Ctx) *uint64 {
	claims := auth.ClaimsFrom(c)
	if claims == nil || claims.UserID == 0 {
		return nil
	}

	id := claims.UserID

	return &id
}

// Get returns the stored choices for ?cookieId=, json null when there are none.
func (s *Service) Get(c *fiber.Ctx) error {
	cookieID := c.Query("cookieId")
	uid := userID(c)

	if cookieID == "" && uid == nil {
		return controller.NewValidationError("missing query parameter", "cookieId")
	}

	pref, err := prefctl.Find(c.UserContext(), s.db, cookieID, uid)
	if errors.Is(err, prefctl.ErrPreferenceNotFound) {
		return c.JSON(nil)
	}

	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(pref)
}

// Post stores the choices of the visitor.
func (s *Service) Post(c *fiber.Ctx) error {
	var in prefctl.Input
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	in.UserID = userID(c)

	pref, err := prefctl.Upsert(c.UserContext(), s.db, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(pref)
}
