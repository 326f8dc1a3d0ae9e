// Package account serves the session endpoints: login, logout and who the caller is.
package account

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db/controller"
	userctl "github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/session"
)

const (
	// Path of the session endpoints.
	Path = handler.APIPath + "/auth"

	// MenuPath returns the admin navigation of the caller.
	MenuPath = handler.APIPath + "/menu"
)

// Service is the account handler service.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	auth     *auth.Service
	signer   *auth.Signer
	sessions *session.Store
}

// Handler is the account handler.
var Handler = Service{}

type loginBody struct {
	Identifier string `json:"identifier" form:"identifier"`
	Email      string `json:"email" form:"email"`
	Password   string `json:"password" form:"password"`
}

// Me describes the caller.
type Me struct {
	User    *models.User `json:"user"`
	IsAdmin bool         `json:"isAdmin"`
	Menu    []menu.Entry `json:"menu"`
}

type loginResponse struct {
	Me
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	if env.Signer == nil || env.Sessions == nil {
		return handler.ErrNilDependency
	}

	s.cfg = cfg
	s.db = db
	s.auth = env.Auth
	s.signer = env.Signer
	s.sessions = env.Sessions

	app.Route(Path, func(router fiber.Router) {
		router.Post("/login", s.Login)
		router.Post("/logout", s.Logout)
		router.Get("/me", s.auth.RequireSession(), s.Me)
	})
	app.Get(MenuPath, s.auth.RequireSession(), s.Menu)

	return nil
}

// Login checks the credentials and starts a session. The token is set as http-only cookie
// and returned for api clients using bearer authentication.
func (s *Service) Login(c *fiber.Ctx) error {
	var in loginBody
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	identifier := strings.TrimSpace(in.Identifier)
	if identifier == "" {
		identifier = strings.TrimSpace(in.Email)
	}

	var fields []string
	if identifier == "" {
		fields = append(fields, "identifier")
	}

	if in.Password == "" {
		fields = append(fields, "password")
	}

	if len(fields) > 0 {
		return controller.NewValidationError("missing required field", fields...)
	}

	u, err := userctl.Authenticate(c.UserContext(), s.db, identifier, in.Password)
	if err != nil {
		log.Info().Str("identifier", identifier).Str("IP", c.IP()).Msg("login failed")

		return err //nolint:wrapcheck
	}

	token, claims, err := s.signer.Issue(u)
	if err != nil {
		return err //nolint:wrapcheck
	}

	c.Cookie(handler.SessionCookie(s.cfg, token, claims.ExpiresAt.Time))

	me, err := s.describe(c, &auth.Caller{Claims: claims, User: u})
	if err != nil {
		return err
	}

	log.Info().Str("email", u.Email).Msg("user logged in")

	return c.JSON(loginResponse{Me: *me, Token: token, ExpiresAt: claims.ExpiresAt.Time})
}

// Logout revokes the session token and clears the cookie. It succeeds without a session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Revoke(auth.ClaimsFrom(c)); err != nil {
		return err //nolint:wrapcheck
	}

	c.ClearCookie(auth.CookieName)

	return c.SendStatus(fiber.StatusNoContent)
}

// Me returns the caller, whether it is an administrator and its navigation.
func (s *Service) Me(c *fiber.Ctx) error {
	me, err := s.describe(c, auth.CallerFrom(c))
	if err != nil {
		return err
	}

	return c.JSON(me)
}

// Menu returns the admin navigation visible to the caller.
func (s *Service) Menu(c *fiber.Ctx) error {
	entries, err := s.auth.VisibleMenu(c.UserContext(), auth.CallerFrom(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(entries)
}

func (s *Service) describe(c *fiber.Ctx, caller *auth.Caller) (*Me, error) {
	entries, err := s.auth.VisibleMenu(c.UserContext(), caller)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Me{User: caller.User, IsAdmin: caller.IsAdmin(), Menu: entries}, nil
}
