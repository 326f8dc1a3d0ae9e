package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/newsletter"
	"github.com/jesite/jesite/internal/web/session"
)

// ErrNilDependency is returned by Init when app, cfg, db or env is nil.
var ErrNilDependency = errors.New(ErrNilACDFatalLogMsg)

// Env carries the services the handlers share.
type Env struct {
	Auth     *auth.Service
	Signer   *auth.Signer
	Sessions *session.Store
	Sender   *newsletter.Sender
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *Env) error
}

// CheckInit validates the arguments of an Init call.
func CheckInit(app *fiber.App, cfg *config.Config, db *gorm.DB, env *Env) error {
	if app == nil || cfg == nil || db == nil || env == nil || env.Auth == nil {
		return ErrNilDependency
	}

	return nil
}
