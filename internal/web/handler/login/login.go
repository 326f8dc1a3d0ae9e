package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	userctl "github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/handler/dashboard"
)

const (
	// Path is the path to the login page.
	Path = handler.RootPath + "login"

	// TemplateName is the name of the login template.
	TemplateName = "login"
)

// Service is the login handler service.
type Service struct {
	cfg    *config.Config
	db     *gorm.DB
	signer *auth.Signer
}

// Handler is the login handler.
var Handler = Service{}

type form struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	if env.Signer == nil {
		return handler.ErrNilDependency
	}

	s.db = db
	s.cfg = cfg
	s.signer = env.Signer

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

func (s *Service) page(c *fiber.Ctx, err error) error {
	data := fiber.Map{"Title": s.cfg.Title}
	if err != nil {
		data["error"] = err.Error()
	}

	return c.Render(TemplateName, data)
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return s.page(c, nil)
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in form
	if err := c.BodyParser(&in); err != nil {
		return s.page(c, ErrInvalidFormData)
	}

	u, err := userctl.Authenticate(c.UserContext(), s.db, in.Identifier, in.Password)
	if errors.Is(err, userctl.ErrInvalidCredentials) {
		log.Info().Str("identifier", in.Identifier).Str("IP", c.IP()).Msg("login failed")

		return s.page(c, ErrInvalidCredentials)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to authenticate")

		return s.page(c, ErrInternalServerError)
	}

	token, claims, err := s.signer.Issue(u)
	if err != nil {
		log.Error().Err(err).Msg("failed to issue session")

		return s.page(c, ErrInternalServerError)
	}

	c.Cookie(handler.SessionCookie(s.cfg, token, claims.ExpiresAt.Time))

	log.Info().Str("email", u.Email).Msg("user logged in")

	return c.Redirect(dashboard.Path)
}
