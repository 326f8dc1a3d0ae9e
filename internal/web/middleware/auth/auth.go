package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/web/handler/dashboard"
	"github.com/jesite/jesite/internal/web/handler/login"
)

// Middleware redirects between the login page and the admin pages depending on the session.
func Middleware(c *fiber.Ctx) error {
	hasSession := auth.ClaimsFrom(c) != nil

	switch {
	case IsLoginPage(c) && hasSession && c.Method() == fiber.MethodGet:
		return c.Redirect(dashboard.Path)
	case IsAdminPage(c) && !hasSession:
		return c.Redirect(login.Path)
	}

	return c.Next()
}

// IsLoginPage checks if the current request is for the login page.
func IsLoginPage(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Path()), login.Path)
}

// IsAdminPage checks if the current request is for a page of the admin area.
func IsAdminPage(c *fiber.Ctx) bool {
	p := strings.ToLower(c.Path())

	return p == dashboard.Path || strings.HasPrefix(p, dashboard.Path+"/")
}
