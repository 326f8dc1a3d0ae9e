package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jesite/jesite/internal/db/models"
)

// Claims is the signed session assertion. It identifies the user by email and may carry
// the legacy role string and the role id the user had when the session was issued.
type Claims struct {
	Email  string `json:"email"`
	UserID uint64 `json:"uid,omitempty"`
	Role   string `json:"role,omitempty"`
	RoleID *uint  `json:"roleId,omitempty"`
	jwt.RegisteredClaims
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewSigner returns a Signer whose tokens live for ttl.
func NewSigner(secret string, ttl time.Duration, issuer string) *Signer {
	return &Signer{secret: []byte(secret), ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL returns the lifetime of issued tokens.
func (s *Signer) TTL() time.Duration {
	return s.ttl
}

// Issue signs a session for u. Every token gets a unique id so it can be revoked.
func (s *Signer) Issue(u *models.User) (string, *Claims, error) {
	now := s.now()

	claims := &Claims{
		Email:  u.Email,
		UserID: u.ID,
		Role:   u.LegacyRole,
		RoleID: u.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   u.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}

	return token, claims, nil
}

// Parse verifies token and returns its claims.
func (s *Signer) Parse(token string) (*Claims, error) {
	claims := new(Claims)

	parsed, err := jwt.ParseWithClaims(
		strings.TrimSpace(token),
		claims,
		func(_ *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !parsed.Valid || claims.Email == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Assertions returns the role assertion carried by the claim, if any.
func (c *Claims) Assertions() []RoleAssertion {
	if c == nil || c.Role == "" {
		return nil
	}

	return []RoleAssertion{LegacyRole(c.Role)}
}
