package role

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/controller/permission"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

// AdminRoleName is the name of the built-in administrator role.
const AdminRoleName = "admin"

// MigrationReport describes what MigrateRoles changed.
type MigrationReport struct {
	RoleID        uint  `json:"roleId"`
	RoleCreated   bool  `json:"roleCreated"`
	Granted       int64 `json:"permissionsGranted"`
	MigratedUsers int64 `json:"migratedUsers"`
}

// MigrateRoles moves accounts of the pre-RBAC schema onto the admin role.
//
// It makes sure the admin role exists and is a system role, grants it every menu item it
// is missing and assigns it to every user without a role. Running it again changes nothing.
func MigrateRoles(ctx context.Context, db *gorm.DB) (*MigrationReport, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	report := &MigrationReport{}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := ByName(ctx, tx, AdminRoleName)

		switch {
		case err == nil:
			if !admin.IsSystem {
				if err := tx.Model(admin).Update("is_system", true).Error; err != nil {
					return fmt.Errorf("failed to protect role %q: %w", admin.Name, err)
				}
			}
		case errors.Is(err, ErrRoleNotFound):
			admin = &models.Role{Name: AdminRoleName, Description: "Administrator", IsSystem: true}
			if err := tx.Create(admin).Error; err != nil {
				return fmt.Errorf("failed to create admin role: %w", err)
			}

			report.RoleCreated = true
		default:
			return err
		}

		report.RoleID = admin.ID

		var before, after int64
		if err := tx.Model(&models.Permission{}).Where("role_id = ?", admin.ID).Count(&before).Error; err != nil {
			return fmt.Errorf("failed to count admin permissions: %w", err)
		}

		if err := permission.EnsureMandatory(ctx, tx, admin.ID, menu.Items()...); err != nil {
			return err
		}

		if err := tx.Model(&models.Permission{}).Where("role_id = ?", admin.ID).Count(&after).Error; err != nil {
			return fmt.Errorf("failed to count admin permissions: %w", err)
		}

		report.Granted = after - before

		result := tx.Model(&models.User{}).Where("role_id IS NULL").Update("role_id", admin.ID)
		if result.Error != nil {
			return fmt.Errorf("failed to migrate users: %w", result.Error)
		}

		report.MigratedUsers = result.RowsAffected

		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Uint("role_id", report.RoleID).
		Bool("role_created", report.RoleCreated).
		Int64("granted", report.Granted).
		Int64("migrated_users", report.MigratedUsers).
		Msg("role migration finished")

	return report, nil
}
