// Package user provides CRUD operations for back office accounts.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/controller/role"
	"github.com/jesite/jesite/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user id or email does not exist.
	ErrUserNotFound = fmt.Errorf("user %w", controller.ErrNotFound)

	// ErrUserExists is returned when the email or username is taken.
	ErrUserExists = fmt.Errorf("user %w", controller.ErrConflict)

	// ErrSelfDelete is returned when a user tries to delete their own account.
	ErrSelfDelete = fmt.Errorf("cannot delete self: %w", controller.ErrForbidden)

	// ErrInvalidCredentials is returned by Authenticate for unknown users, wrong passwords
	// and inactive accounts alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CreateInput carries the fields of a new user.
type CreateInput struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Username   string `json:"username" validate:"required,max=100"`
	Password   string `json:"password" validate:"required,min=8,max=128"`
	Name       string `json:"name" validate:"max=200"`
	RoleID     *uint  `json:"roleId"`
	LegacyRole string `json:"role" validate:"max=100"`
}

// UpdateInput carries the fields to change; nil and empty values mean no change.
type UpdateInput struct {
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Username *string `json:"username" validate:"omitempty,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8,max=128"`
	Name     *string `json:"name" validate:"omitempty,max=200"`
	RoleID   *uint   `json:"roleId"`
	Active   *bool   `json:"active"`
}

// normalize trims the fields and drops the empty ones: email, username and password
// are never cleared, an empty value keeps the stored one.
func (in UpdateInput) normalize() UpdateInput {
	keep := func(v *string, clean func(string) string) *string {
		if v == nil {
			return nil
		}

		if c := clean(*v); c != "" {
			return &c
		}

		return nil
	}

	in.Email = keep(in.Email, normalizeEmail)
	in.Username = keep(in.Username, strings.TrimSpace)
	in.Password = keep(in.Password, func(s string) string { return s })

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}

	return in
}

// List returns every user with the role joined, ordered by id.
func List(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var users []models.User
	if err := db.WithContext(ctx).Preload("Role").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// Get returns one user with the role joined.
func Get(ctx context.Context, db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return first(db.WithContext(ctx).Preload("Role").Where("id = ?", id))
}

// ByEmail returns the user owning email, ignoring case, with the role joined.
func ByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	return first(db.WithContext(ctx).Preload("Role").Where("LOWER(email) = ?", normalizeEmail(email)))
}

// Create stores a new active user with a hashed password.
func Create(ctx context.Context, db *gorm.DB, in CreateInput) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in.Email = normalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	in.LegacyRole = strings.TrimSpace(in.LegacyRole)

	if err := controller.Validate(in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	hash, err := models.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Email:      in.Email,
		Username:   in.Username,
		Password:   hash,
		Name:       in.Name,
		LegacyRole: in.LegacyRole,
		RoleID:     in.RoleID,
		Active:     true,
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := roleExists(tx, u.RoleID); err != nil {
			return err
		}

		if err := identityFree(tx, u.Email, u.Username, 0); err != nil {
			return err
		}

		if err := tx.Create(u).Error; err != nil {
			if controller.IsDuplicate(err) {
				return ErrUserExists
			}

			return fmt.Errorf("failed to create user %q: %w", u.Email, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Update applies the non-nil fields of in. The password is only rehashed when a new one is given.
func Update(ctx context.Context, db *gorm.DB, id uint64, in UpdateInput) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in = in.normalize()
	if err := controller.Validate(in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	var u *models.User

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if u, err = first(tx.Where("id = ?", id)); err != nil {
			return err
		}

		if in.Email != nil {
			u.Email = *in.Email
		}

		if in.Username != nil {
			u.Username = *in.Username
		}

		if in.Name != nil {
			u.Name = *in.Name
		}

		if in.Active != nil {
			u.Active = *in.Active
		}

		if in.RoleID != nil {
			if err := roleExists(tx, in.RoleID); err != nil {
				return err
			}

			u.RoleID = in.RoleID
			u.Role = nil
		}

		if in.Password != nil {
			hash, err := models.HashPassword(*in.Password)
			if err != nil {
				return err
			}

			u.Password = hash
		}

		if err := identityFree(tx, u.Email, u.Username, u.ID); err != nil {
			return err
		}

		if err := tx.Omit("Role").Save(u).Error; err != nil {
			if controller.IsDuplicate(err) {
				return ErrUserExists
			}

			return fmt.Errorf("failed to update user %d: %w", id, err)
		}

		return tx.Preload("Role").First(u, u.ID).Error
	})
	if err != nil {
		return nil, err
	}

	return u, nil
}

// Delete removes a user. callerID is the account performing the deletion and is never deleted.
func Delete(ctx context.Context, db *gorm.DB, id, callerID uint64) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if id == callerID {
		return ErrSelfDelete
	}

	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Authenticate returns the active user whose email or username is identifier and whose
// password matches.
func Authenticate(ctx context.Context, db *gorm.DB, identifier, password string) (*models.User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := first(db.WithContext(ctx).Preload("Role").
		Where("LOWER(email) = ? OR username = ?", strings.ToLower(identifier), identifier))
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}

	if err != nil {
		return nil, err
	}

	if !u.Active || !u.VerifyPassword(password) {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// Count returns the number of stored users.
func Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return n, nil
}

func first(q *gorm.DB) (*models.User, error) {
	var u models.User

	err := q.First(&u).Error
	if controller.IsNotFound(err) {
		return nil, ErrUserNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	return &u, nil
}

func roleExists(db *gorm.DB, roleID *uint) error {
	if roleID == nil {
		return nil
	}

	var n int64
	if err := db.Model(&models.Role{}).Where("id = ?", *roleID).Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check role %d: %w", *roleID, err)
	}

	if n == 0 {
		return role.ErrRoleNotFound
	}

	return nil
}

func identityFree(db *gorm.DB, email, username string, exceptID uint64) error {
	q := db.Model(&models.User{}).Where("(LOWER(email) = ? OR username = ?)", email, username)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check user identity: %w", err)
	}

	if n > 0 {
		return ErrUserExists
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
