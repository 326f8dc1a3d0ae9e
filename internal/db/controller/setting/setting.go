// Package setting stores named json blobs in the settings table.
package setting

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

const nameQueryPattern = "name = ?"

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = fmt.Errorf("setting %w", controller.ErrNotFound)
	// ErrSettingNameEmpty is returned when the setting name is empty.
	ErrSettingNameEmpty = controller.NewValidationError("setting name cannot be empty", "name")
)

// Get retrieves a setting by its name.
func Get(ctx context.Context, db *gorm.DB, name string) (*models.Setting, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrSettingNameEmpty
	}

	var s models.Setting

	err := db.WithContext(ctx).Where(nameQueryPattern, name).First(&s).Error
	if controller.IsNotFound(err) {
		return nil, ErrSettingNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load setting %q: %w", name, err)
	}

	return &s, nil
}

// Set creates or replaces the value of a setting in one statement.
func Set(ctx context.Context, db *gorm.DB, name string, value []byte) (*models.Setting, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrSettingNameEmpty
	}

	s := &models.Setting{Name: name, Value: value}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(s).Error; err != nil {
		return nil, fmt.Errorf("failed to store setting %q: %w", name, err)
	}

	return Get(ctx, db, name)
}

// Delete deletes a setting by name.
func Delete(ctx context.Context, db *gorm.DB, name string) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return ErrSettingNameEmpty
	}

	result := db.WithContext(ctx).Where(nameQueryPattern, name).Delete(&models.Setting{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete setting %q: %w", name, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSettingNotFound
	}

	return nil
}
