package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jesite/jesite/internal/menu"
)

const (
	// CookieName is the cookie holding the session token.
	CookieName = "session"

	localsClaims = "auth.claims"
	localsCaller = "auth.caller"
)

// RevocationList tells whether a session id was logged out.
type RevocationList interface {
	Revoked(id string) (bool, error)
}

// Session parses the session token of the request, from the session cookie or a bearer
// Authorization header, and stores the claims for later handlers. Requests without a valid,
// unrevoked token continue anonymously.
func Session(signer *Signer, revoked RevocationList) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFrom(c)
		if token == "" {
			return c.Next()
		}

		claims, err := signer.Parse(token)
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid session token")
			return c.Next()
		}

		if revoked != nil {
			isRevoked, err := revoked.Revoked(claims.ID)
			if err != nil {
				return err
			}

			if isRevoked {
				return c.Next()
			}
		}

		c.Locals(localsClaims, claims)

		return c.Next()
	}
}

// ClaimsFrom returns the session claims of the request, nil for anonymous requests.
func ClaimsFrom(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(localsClaims).(*Claims)
	return claims
}

// CallerFrom returns the caller a previous gate resolved, nil if none ran.
func CallerFrom(c *fiber.Ctx) *Caller {
	caller, _ := c.Locals(localsCaller).(*Caller)
	return caller
}

// LoadCaller resolves the caller of the request once and caches it.
func (s *Service) LoadCaller(c *fiber.Ctx) (*Caller, error) {
	if caller := CallerFrom(c); caller != nil {
		return caller, nil
	}

	caller, err := s.Caller(c.UserContext(), ClaimsFrom(c))
	if err != nil {
		return nil, err
	}

	c.Locals(localsCaller, caller)

	return caller, nil
}

// RequireSession rejects anonymous requests and resolves the caller.
func (s *Service) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := s.LoadCaller(c); err != nil {
			return err
		}

		return c.Next()
	}
}

// RequireAdmin lets only administrators through.
func (s *Service) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := s.LoadCaller(c)
		if err != nil {
			return err
		}

		if !record(GateAdmin, caller.IsAdmin()) {
			log.Warn().Str("email", caller.User.Email).Str("path", c.Path()).Msg("administrator required")

			return ErrUnauthorized
		}

		return c.Next()
	}
}

// RequireMenu lets through callers allowed to open the menu section item.
func (s *Service) RequireMenu(item menu.Item) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := s.LoadCaller(c)
		if err != nil {
			return err
		}

		ok, err := s.CanAccess(c.UserContext(), caller, item)
		if err != nil {
			return err
		}

		if !ok {
			log.Warn().Str("email", caller.User.Email).Str("menu_item", item.String()).Msg("menu section denied")

			return ErrUnauthorized
		}

		return c.Next()
	}
}

func tokenFrom(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}

	return c.Cookies(CookieName)
}
