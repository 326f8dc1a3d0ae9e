// Package session keeps the ids of revoked session tokens.
//
// Sessions are signed tokens, so logging out can not delete them. The id of a token
// that was logged out is stored until the token would have expired anyway.
package session

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jesite/jesite/internal/auth"
)

const keyPrefix = "revoked:"

// ErrStorageNil is returned by New without a storage backend.
var ErrStorageNil = errors.New("session storage is nil")

// Store is a revocation list on top of a fiber storage backend.
type Store struct {
	storage fiber.Storage
	now     func() time.Time
}

// New returns a Store writing to storage.
func New(storage fiber.Storage) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Store{storage: storage, now: time.Now}, nil
}

// Revoke marks the token described by claims as logged out.
// Tokens that already expired are not stored.
func (s *Store) Revoke(claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}

	return s.storage.Set(keyPrefix+claims.ID, []byte{1}, ttl) //nolint:wrapcheck
}

// Revoked implements auth.RevocationList.
func (s *Store) Revoked(id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	v, err := s.storage.Get(keyPrefix + id)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	return len(v) > 0, nil
}
