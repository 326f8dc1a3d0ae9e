// Package role provides CRUD operations for roles and the one-shot role migration.
package role

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

var (
	// ErrRoleNotFound is returned when a role id does not exist.
	ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)

	// ErrRoleExists is returned when another role already uses the name.
	ErrRoleExists = fmt.Errorf("role %w", controller.ErrConflict)

	// ErrRoleInUse is returned when deleting a role users still reference.
	ErrRoleInUse = fmt.Errorf("role is assigned to users: %w", controller.ErrConflict)

	// ErrSystemRole is returned when deleting a system role.
	ErrSystemRole = fmt.Errorf("system roles cannot be deleted: %w", controller.ErrForbidden)
)

// WithCounts is a role annotated with the number of users and permissions referencing it.
type WithCounts struct {
	models.Role
	UserCount       int64 `json:"userCount"`
	PermissionCount int64 `json:"permissionCount"`
}

// Input carries the editable fields of a role.
type Input struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=255"`
}

func (in Input) normalize() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	return in, controller.Validate(in) //nolint:wrapcheck
}

type roleCount struct {
	RoleID uint
	N      int64
}

// List returns every role ordered by name with its counts.
func List(ctx context.Context, db *gorm.DB) ([]WithCounts, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	db = db.WithContext(ctx)

	var roles []models.Role
	if err := db.Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	users, err := countBy(db, &models.User{})
	if err != nil {
		return nil, err
	}

	perms, err := countBy(db, &models.Permission{})
	if err != nil {
		return nil, err
	}

	out := make([]WithCounts, 0, len(roles))
	for _, r := range roles {
		out = append(out, WithCounts{Role: r, UserCount: users[r.ID], PermissionCount: perms[r.ID]})
	}

	return out, nil
}

// Get returns one role with its counts.
func Get(ctx context.Context, db *gorm.DB, id uint) (*WithCounts, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	db = db.WithContext(ctx)

	r, err := find(db, id)
	if err != nil {
		return nil, err
	}

	out := &WithCounts{Role: *r}

	if err := db.Model(&models.User{}).Where("role_id = ?", id).Count(&out.UserCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count users of role %d: %w", id, err)
	}

	if err := db.Model(&models.Permission{}).Where("role_id = ?", id).Count(&out.PermissionCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count permissions of role %d: %w", id, err)
	}

	return out, nil
}

// ByName finds a role ignoring case.
func ByName(ctx context.Context, db *gorm.DB, name string) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var r models.Role

	err := db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&r).Error
	if controller.IsNotFound(err) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %q: %w", name, err)
	}

	return &r, nil
}

// Create stores a new, deletable role. Names are unique ignoring case.
func Create(ctx context.Context, db *gorm.DB, in Input) (*models.Role, error) {
	return create(ctx, db, in, false)
}

// CreateSystem stores a role that can never be deleted.
func CreateSystem(ctx context.Context, db *gorm.DB, in Input) (*models.Role, error) {
	return create(ctx, db, in, true)
}

func create(ctx context.Context, db *gorm.DB, in Input, system bool) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	r := &models.Role{Name: in.Name, Description: in.Description, IsSystem: system}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := nameFree(tx, in.Name, 0); err != nil {
			return err
		}

		if err := tx.Create(r).Error; err != nil {
			if controller.IsDuplicate(err) {
				return ErrRoleExists
			}

			return fmt.Errorf("failed to create role %q: %w", in.Name, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Update changes name and description of a role.
func Update(ctx context.Context, db *gorm.DB, id uint, in Input) (*models.Role, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	var r *models.Role

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if r, err = find(tx, id); err != nil {
			return err
		}

		if err := nameFree(tx, in.Name, id); err != nil {
			return err
		}

		r.Name = in.Name
		r.Description = in.Description

		if err := tx.Save(r).Error; err != nil {
			if controller.IsDuplicate(err) {
				return ErrRoleExists
			}

			return fmt.Errorf("failed to update role %d: %w", id, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Delete removes a role and its permissions.
// System roles and roles still assigned to users are refused.
func Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var r models.Role

		err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).First(&r, id).Error
		if controller.IsNotFound(err) {
			return ErrRoleNotFound
		}

		if err != nil {
			return fmt.Errorf("failed to load role %d: %w", id, err)
		}

		if r.IsSystem {
			return ErrSystemRole
		}

		var users int64
		if err := tx.Model(&models.User{}).Where("role_id = ?", id).Count(&users).Error; err != nil {
			return fmt.Errorf("failed to count users of role %d: %w", id, err)
		}

		if users > 0 {
			return ErrRoleInUse
		}

		if err := tx.Where("role_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("failed to delete permissions of role %d: %w", id, err)
		}

		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("failed to delete role %d: %w", id, err)
		}

		return nil
	})
}

func find(db *gorm.DB, id uint) (*models.Role, error) {
	var r models.Role

	err := db.First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRoleNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load role %d: %w", id, err)
	}

	return &r, nil
}

// nameFree fails with ErrRoleExists when a role other than exceptID holds name.
func nameFree(db *gorm.DB, name string, exceptID uint) error {
	q := db.Model(&models.Role{}).Where("LOWER(name) = ?", strings.ToLower(name))
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return fmt.Errorf("failed to check role name %q: %w", name, err)
	}

	if n > 0 {
		return ErrRoleExists
	}

	return nil
}

func countBy(db *gorm.DB, model any) (map[uint]int64, error) {
	var rows []roleCount

	if err := db.Model(model).
		Select("role_id, COUNT(*) AS n").
		Where("role_id IS NOT NULL").
		Group("role_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count by role: %w", err)
	}

	out := make(map[uint]int64, len(rows))
	for _, r := range rows {
		out[r.RoleID] = r.N
	}

	return out, nil
}
