// Package web assembles the fiber application: middlewares, templates, static files and handlers.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	fiberlog "github.com/jesite/jesite/internal/logger/adapter/fiber"
	"github.com/jesite/jesite/internal/newsletter"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/handler/admin/contacts"
	"github.com/jesite/jesite/internal/web/handler/admin/content"
	nlhandler "github.com/jesite/jesite/internal/web/handler/admin/newsletter"
	"github.com/jesite/jesite/internal/web/handler/admin/settings"
	"github.com/jesite/jesite/internal/web/handler/api/account"
	"github.com/jesite/jesite/internal/web/handler/api/cookiepref"
	"github.com/jesite/jesite/internal/web/handler/api/migrate"
	"github.com/jesite/jesite/internal/web/handler/api/permission"
	"github.com/jesite/jesite/internal/web/handler/api/role"
	"github.com/jesite/jesite/internal/web/handler/api/user"
	"github.com/jesite/jesite/internal/web/handler/dashboard"
	"github.com/jesite/jesite/internal/web/handler/login"
	"github.com/jesite/jesite/internal/web/handler/logout"
	"github.com/jesite/jesite/internal/web/handler/site"
	pageauth "github.com/jesite/jesite/internal/web/middleware/auth"
	"github.com/jesite/jesite/internal/web/session"
)

const (
	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes the prometheus metrics.
	MetricsPath = "/metrics"

	// TokenIssuer is the issuer of session tokens.
	TokenIssuer = "jesite"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	env          *handler.Env
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the http server down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	s.Shutdown()
}

// Shutdown stops the http server. Unless fast shutdown is set, checkalive fails for
// ShutDownTime seconds first so load balancers stop sending traffic.
func (s *Service) Shutdown() {
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// Env returns the services shared by the handlers.
func (s *Service) Env() *handler.Env {
	return s.env
}

// New creates the web service. storage keeps revoked sessions, sender delivers campaigns
// started from the admin area.
func New(cfg *config.Config, db *gorm.DB, storage fiber.Storage, sender *newsletter.Sender) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	sessions, err := session.New(storage)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	env := &handler.Env{
		Auth:     auth.NewService(db),
		Signer:   auth.NewSigner(cfg.Webserver.Session.Secret, cfg.Webserver.Session.ExpiryTime, TokenIssuer),
		Sessions: sessions,
		Sender:   sender,
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          newTemplateEngine(cfg),
			ErrorHandler:   handler.ErrorHandler,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
		env: env,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New(recover.Config{EnableStackTrace: cfg.DevMode}))
	}

	app.Use(fiberlog.New(fiberlog.Config{Config: cfg.Log, CheckAliveURI: CheckAlivePath}))

	app.Get(CheckAlivePath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendString("OK")
	})
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	app.Use(auth.Session(env.Signer, env.Sessions))
	app.Use(pageauth.Middleware)

	if cfg.Webserver.CacheEnabled {
		app.Use(cache.New(cache.Config{
			Expiration: cfg.Webserver.CacheExpiration,
			Next:       skipCache,
		}))
	}

	if err := initHandlers(app, cfg, db, env); err != nil {
		return nil, err
	}

	return service, nil
}

func initHandlers(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	handlers := []handler.Service{
		&login.Handler,
		&logout.Handler,
		&account.Handler,
		&role.Handler,
		&permission.Handler,
		&user.Handler,
		&migrate.Handler,
		&cookiepref.Handler,
		&dashboard.Handler,
		&content.Handler,
		&contacts.Handler,
		&nlhandler.Handler,
		&settings.Handler,
		&site.Handler,
	}

	for _, h := range handlers {
		if err := h.Init(app, cfg, db, env); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}

// skipCache limits the page cache to anonymous requests of public pages.
func skipCache(c *fiber.Ctx) bool {
	if c.Method() != fiber.MethodGet || auth.ClaimsFrom(c) != nil {
		return true
	}

	p := c.Path()

	return strings.HasPrefix(p, handler.APIPath) ||
		strings.HasPrefix(p, dashboard.Path) ||
		strings.HasPrefix(p, login.Path) ||
		strings.HasPrefix(p, site.UnsubscribePath) ||
		p == CheckAlivePath || p == MetricsPath
}

func newTemplateEngine(cfg *config.Config) *html.Engine {
	httpFS := http.FS(templateFiles())
	engine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		engine = html.New("./internal/web/templates", ".gohtml")
		engine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	engine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	engine.AddFunc("date", func(t any) string {
		switch v := t.(type) {
		case time.Time:
			return v.Format("2 Jan 2006")
		case *time.Time:
			if v != nil {
				return v.Format("2 Jan 2006")
			}
		}

		return ""
	})
	engine.AddFunc("year", func() int {
		return time.Now().Year()
	})

	return engine
}
