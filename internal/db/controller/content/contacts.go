package content

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

// MarkContactRead flags a contact message as read or unread.
func MarkContactRead(ctx context.Context, db *gorm.DB, id uint, read bool) error {
	if db == nil {
		return controller.ErrDBNil
	}

	db = db.WithContext(ctx)

	// mysql reports changed rows only, so existence is checked separately
	if _, err := Contacts.Get(ctx, db, id); err != nil {
		return err
	}

	if err := db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", read).Error; err != nil {
		return fmt.Errorf("failed to update contact message %d: %w", id, err)
	}

	return nil
}

// UnreadContacts counts contact messages nobody has read yet.
func UnreadContacts(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.ContactMessage{}).Where("is_read = ?", false).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count unread contact messages: %w", err)
	}

	return n, nil
}
