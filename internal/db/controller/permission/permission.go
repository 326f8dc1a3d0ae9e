// Package permission stores the (role, menu item) grants and implements the atomic replace
// used by the permission editor.
package permission

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

const whereRoleID = "role_id = ?"

var (
	// ErrRoleNotFound is returned when the role of a grant does not exist.
	ErrRoleNotFound = fmt.Errorf("role %w", controller.ErrNotFound)

	// ErrPermissionNotFound is returned when a permission id does not exist.
	ErrPermissionNotFound = fmt.Errorf("permission %w", controller.ErrNotFound)

	// ErrPermissionExists is returned when the role already holds the menu item.
	ErrPermissionExists = fmt.Errorf("permission %w", controller.ErrConflict)
)

// ListByRole returns the grants of one role.
func ListByRole(ctx context.Context, db *gorm.DB, roleID uint) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.Permission
	if err := db.WithContext(ctx).Where(whereRoleID, roleID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions of role %d: %w", roleID, err)
	}

	return out, nil
}

// MenuItems returns the menu items granted to one role.
func MenuItems(ctx context.Context, db *gorm.DB, roleID uint) ([]string, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var items []string
	if err := db.WithContext(ctx).Model(&models.Permission{}).
		Where(whereRoleID, roleID).
		Order("id").
		Pluck("menu_item", &items).Error; err != nil {
		return nil, fmt.Errorf("failed to load menu items of role %d: %w", roleID, err)
	}

	return items, nil
}

// ListAll returns every grant with its role joined.
func ListAll(ctx context.Context, db *gorm.DB) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.Permission
	if err := db.WithContext(ctx).Preload("Role").Order("role_id, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}

	return out, nil
}

// Grant adds a single menu item to a role.
func Grant(ctx context.Context, db *gorm.DB, roleID uint, item menu.Item) (*models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if !item.Valid() {
		return nil, controller.NewValidationError(menu.ErrUnknownItem.Error(), "menuItem")
	}

	perm := &models.Permission{RoleID: roleID, MenuItem: string(item)}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRole(tx, roleID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Permission{}).
			Where("role_id = ? AND menu_item = ?", roleID, string(item)).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return ErrPermissionExists
		}

		if err := tx.Create(perm).Error; err != nil {
			if controller.IsDuplicate(err) {
				return ErrPermissionExists
			}

			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return perm, nil
}

// Revoke deletes one grant by id.
func Revoke(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	result := db.WithContext(ctx).Delete(&models.Permission{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete permission %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrPermissionNotFound
	}

	return nil
}

// Replace sets the grants of a role to exactly items.
//
// The role row is locked, every existing grant deleted and the new set inserted inside one
// transaction: concurrent replaces of the same role serialize, and a failure leaves the previous
// set untouched. Duplicates in items are dropped; an empty list leaves the role without grants.
func Replace(ctx context.Context, db *gorm.DB, roleID uint, items []menu.Item) ([]models.Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	rows := make([]models.Permission, 0, len(items))
	seen := make(map[menu.Item]struct{}, len(items))

	for _, item := range items {
		if !item.Valid() {
			return nil, controller.NewValidationError(menu.ErrUnknownItem.Error(), "menuItems")
		}

		if _, dup := seen[item]; dup {
			continue
		}

		seen[item] = struct{}{}
		rows = append(rows, models.Permission{RoleID: roleID, MenuItem: string(item)})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockRole(tx, roleID); err != nil {
			return err
		}

		if err := tx.Where(whereRoleID, roleID).Delete(&models.Permission{}).Error; err != nil {
			return fmt.Errorf("failed to clear permissions of role %d: %w", roleID, err)
		}

		if len(rows) == 0 {
			return nil
		}

		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to insert permissions of role %d: %w", roleID, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// EnsureMandatory inserts the items the role does not hold yet and leaves existing grants alone.
// It relies on the (role_id, menu_item) unique index, so concurrent calls never fail on duplicates.
func EnsureMandatory(ctx context.Context, db *gorm.DB, roleID uint, items ...menu.Item) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if len(items) == 0 {
		return nil
	}

	rows := make([]models.Permission, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.Permission{RoleID: roleID, MenuItem: string(item)})
	}

	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to ensure permissions of role %d: %w", roleID, err)
	}

	return nil
}

// lockRole takes a row lock on the role where the engine supports it and checks it exists.
func lockRole(tx *gorm.DB, roleID uint) error {
	var role models.Role

	err := tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		First(&role, roleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoleNotFound
	}

	if err != nil {
		return fmt.Errorf("failed to lock role %d: %w", roleID, err)
	}

	return nil
}
