package auth

import (
	"context"
	"errors"
	"slices"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller/permission"
	"github.com/jesite/jesite/internal/db/controller/role"
	"github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

// Caller is the identity behind a request: the session claim and the user it resolves to,
// loaded fresh with the role joined.
type Caller struct {
	Claims *Claims
	User   *models.User
}

// RoleID is the role the caller acts with: the stored one, else the one in the claim.
// Nil means the account predates roles.
func (c *Caller) RoleID() *uint {
	if c.User != nil && c.User.RoleID != nil {
		return c.User.RoleID
	}

	if c.Claims != nil {
		return c.Claims.RoleID
	}

	return nil
}

// Assertions lists every role assertion of the caller: the stored role and the legacy
// role string of the claim.
func (c *Caller) Assertions() []RoleAssertion {
	var out []RoleAssertion

	if c.User != nil && c.User.Role != nil {
		out = append(out, RoleRef{ID: c.User.Role.ID, Name: c.User.Role.Name})
	}

	return append(out, c.Claims.Assertions()...)
}

// IsAdmin reports whether any role assertion of the caller is admin-equivalent.
func (c *Caller) IsAdmin() bool {
	return IsAdmin(c.Assertions()...)
}

// Service resolves callers and answers authorization questions.
type Service struct {
	db *gorm.DB
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Caller loads the user named by claims.
func (s *Service) Caller(ctx context.Context, claims *Claims) (*Caller, error) {
	if claims == nil || claims.Email == "" {
		return nil, ErrUnauthenticated
	}

	u, err := user.ByEmail(ctx, s.db, claims.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, err
	}

	return &Caller{Claims: claims, User: u}, nil
}

// Authorize is the gate of privileged operations.
func (s *Service) Authorize(ctx context.Context, claims *Claims) (*Caller, error) {
	caller, err := s.Caller(ctx, claims)
	if err != nil {
		return nil, err
	}

	if !record(GateAdmin, caller.IsAdmin()) {
		log.Warn().Str("email", claims.Email).Msg("caller is not an administrator")

		return nil, ErrUnauthorized
	}

	return caller, nil
}

// CanReadRolePermissions allows administrators and members of the role itself.
func (s *Service) CanReadRolePermissions(caller *Caller, roleID uint) bool {
	if caller.IsAdmin() {
		return record(GateRolePermissions, true)
	}

	own := caller.RoleID()

	return record(GateRolePermissions, own != nil && *own == roleID)
}

// RolePermissions returns the grants of a role. Admin-equivalent roles first get the
// mandatory items inserted when they lack them, so this read may write.
func (s *Service) RolePermissions(ctx context.Context, roleID uint) ([]models.Permission, error) {
	r, err := role.Get(ctx, s.db, roleID)
	if err != nil {
		return nil, err
	}

	if IsAdminRoleName(r.Name) {
		if err := permission.EnsureMandatory(ctx, s.db, roleID, menu.Mandatory()...); err != nil {
			return nil, err
		}
	}

	return permission.ListByRole(ctx, s.db, roleID)
}

// VisibleMenu returns the admin navigation of the caller in menu order.
// Accounts without a role see the whole menu.
func (s *Service) VisibleMenu(ctx context.Context, caller *Caller) ([]menu.Entry, error) {
	items, all, err := s.menuItems(ctx, caller)
	if err != nil {
		return nil, err
	}

	if all {
		return menu.All(), nil
	}

	return menu.Filter(items), nil
}

// CanAccess reports whether the caller may open a menu section. Administrators and accounts
// without a role may open every section.
func (s *Service) CanAccess(ctx context.Context, caller *Caller, item menu.Item) (bool, error) {
	if caller.IsAdmin() {
		return record(GateMenu, true), nil
	}

	items, all, err := s.menuItems(ctx, caller)
	if err != nil {
		return false, err
	}

	return record(GateMenu, all || slices.Contains(items, string(item))), nil
}

// menuItems returns the granted items, or all=true when the caller has no role.
func (s *Service) menuItems(ctx context.Context, caller *Caller) ([]string, bool, error) {
	roleID := caller.RoleID()
	if roleID == nil {
		return nil, true, nil
	}

	perms, err := s.RolePermissions(ctx, *roleID)
	if err != nil {
		return nil, false, err
	}

	items := make([]string, 0, len(perms))
	for _, p := range perms {
		items = append(items, p.MenuItem)
	}

	return items, false, nil
}
