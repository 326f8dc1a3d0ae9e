package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
)

// SessionCookie returns the http-only cookie carrying a session token.
// Outside dev mode the cookie is only sent over https.
func SessionCookie(cfg *config.Config, token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     RootPath,
		Expires:  expires,
		Secure:   !cfg.DevMode,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}
