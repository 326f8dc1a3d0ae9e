package auth

import (
	"errors"
	"fmt"

	"github.com/jesite/jesite/internal/db/controller"
)

var (
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnauthorized is returned when the caller fails an authorization gate.
	// It never says which check failed.
	ErrUnauthorized = errors.New("not authorized")

	// ErrUserNotFound is returned when the session email does not resolve to a stored user.
	ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)

	// ErrInvalidToken is returned for malformed, expired or badly signed session tokens.
	ErrInvalidToken = errors.New("invalid session token")
)
