// Package newsletter stores newsletter subscribers and campaigns.
package newsletter

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

var (
	// ErrSubscriberNotFound is returned for unknown subscriber ids and unsubscribe tokens.
	ErrSubscriberNotFound = fmt.Errorf("subscriber %w", controller.ErrNotFound)

	// ErrCampaignNotFound is returned for unknown campaign ids.
	ErrCampaignNotFound = fmt.Errorf("campaign %w", controller.ErrNotFound)

	// ErrCampaignLocked is returned when editing or sending a campaign that left the draft states.
	ErrCampaignLocked = fmt.Errorf("campaign is no longer editable: %w", controller.ErrForbidden)
)

type subscribeInput struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

// Subscribe adds email to the newsletter. Subscribing again reactivates the address
// and keeps its unsubscribe token.
func Subscribe(ctx context.Context, db *gorm.DB, email string) (*models.NewsletterSubscriber, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := controller.Validate(subscribeInput{Email: email}); err != nil {
		return nil, err
	}

	var sub models.NewsletterSubscriber

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found []models.NewsletterSubscriber
		if err := tx.Where("email = ?", email).Limit(1).Find(&found).Error; err != nil {
			return fmt.Errorf("failed to look up subscriber: %w", err)
		}

		if len(found) == 1 {
			sub = found[0]
			if sub.Active {
				return nil
			}

			sub.Active = true

			return tx.Save(&sub).Error
		}

		sub = models.NewsletterSubscriber{Email: email, Token: uuid.NewString(), Active: true}

		// a concurrent subscribe of the same address may win, the reload returns its row
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to create subscriber: %w", err)
		}

		var stored models.NewsletterSubscriber
		if err := tx.Where("email = ?", email).First(&stored).Error; err != nil {
			return fmt.Errorf("failed to reload subscriber: %w", err)
		}

		sub = stored

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// Unsubscribe deactivates the subscriber owning token.
func Unsubscribe(ctx context.Context, db *gorm.DB, token string) (*models.NewsletterSubscriber, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrSubscriberNotFound
	}

	var sub models.NewsletterSubscriber

	err := db.WithContext(ctx).Where("token = ?", token).First(&sub).Error
	if controller.IsNotFound(err) {
		return nil, ErrSubscriberNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load subscriber: %w", err)
	}

	if sub.Active {
		sub.Active = false
		if err := db.WithContext(ctx).Save(&sub).Error; err != nil {
			return nil, fmt.Errorf("failed to unsubscribe %d: %w", sub.ID, err)
		}
	}

	return &sub, nil
}

// ListSubscribers returns every subscriber, newest first.
func ListSubscribers(ctx context.Context, db *gorm.DB) ([]models.NewsletterSubscriber, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.NewsletterSubscriber
	if err := db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	return out, nil
}

// DeleteSubscriber removes a subscriber for good.
func DeleteSubscriber(ctx context.Context, db *gorm.DB, id uint64) error {
	if db == nil {
		return controller.ErrDBNil
	}

	result := db.WithContext(ctx).Delete(&models.NewsletterSubscriber{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete subscriber %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrSubscriberNotFound
	}

	return nil
}

// CountActive returns the number of active subscribers.
func CountActive(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(&models.NewsletterSubscriber{}).Where("active = ?", true).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}

	return n, nil
}

// EachActiveBatch calls fn with the active subscribers in batches of size, in id order.
// An error from fn stops the iteration and is returned.
func EachActiveBatch(ctx context.Context, db *gorm.DB, size int,
	fn func(batch []models.NewsletterSubscriber) error,
) error {
	if db == nil {
		return controller.ErrDBNil
	}

	var batch []models.NewsletterSubscriber

	result := db.WithContext(ctx).
		Where("active = ?", true).
		FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})

	return result.Error
}
