package newsletter

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

// CampaignInput carries the editable fields of a campaign.
// A campaign with ScheduledAt set is picked up by the scheduler, otherwise it stays a draft.
type CampaignInput struct {
	Subject     string     `json:"subject" validate:"required,max=255"`
	Body        string     `json:"body" validate:"required"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

func (in CampaignInput) status() models.CampaignStatus {
	if in.ScheduledAt != nil {
		return models.CampaignScheduled
	}

	return models.CampaignDraft
}

// editable reports whether a campaign can still change or be claimed.
func editable(s models.CampaignStatus) bool {
	return s == models.CampaignDraft || s == models.CampaignScheduled
}

// ListCampaigns returns every campaign, newest first.
func ListCampaigns(ctx context.Context, db *gorm.DB) ([]models.NewsletterCampaign, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []models.NewsletterCampaign
	if err := db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	return out, nil
}

// GetCampaign returns one campaign.
func GetCampaign(ctx context.Context, db *gorm.DB, id uint) (*models.NewsletterCampaign, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var c models.NewsletterCampaign

	err := db.WithContext(ctx).First(&c, id).Error
	if controller.IsNotFound(err) {
		return nil, ErrCampaignNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load campaign %d: %w", id, err)
	}

	return &c, nil
}

// CreateCampaign stores a draft or scheduled campaign.
func CreateCampaign(ctx context.Context, db *gorm.DB, in CampaignInput) (*models.NewsletterCampaign, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := controller.Validate(in); err != nil {
		return nil, err
	}

	c := &models.NewsletterCampaign{
		Subject:     in.Subject,
		Body:        in.Body,
		Status:      in.status(),
		ScheduledAt: in.ScheduledAt,
	}

	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return c, nil
}

// UpdateCampaign edits a campaign that was not sent yet.
func UpdateCampaign(ctx context.Context, db *gorm.DB, id uint, in CampaignInput) (*models.NewsletterCampaign, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := controller.Validate(in); err != nil {
		return nil, err
	}

	c, err := GetCampaign(ctx, db, id)
	if err != nil {
		return nil, err
	}

	if !editable(c.Status) {
		return nil, ErrCampaignLocked
	}

	result := db.WithContext(ctx).Model(&models.NewsletterCampaign{}).
		Where("id = ? AND status IN ?", id, []models.CampaignStatus{models.CampaignDraft, models.CampaignScheduled}).
		Updates(map[string]any{
			"subject":      in.Subject,
			"body":         in.Body,
			"status":       in.status(),
			"scheduled_at": in.ScheduledAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update campaign %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, ErrCampaignLocked
	}

	return GetCampaign(ctx, db, id)
}

// DeleteCampaign removes a campaign that is not being sent.
func DeleteCampaign(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	c, err := GetCampaign(ctx, db, id)
	if err != nil {
		return err
	}

	if c.Status == models.CampaignSending {
		return ErrCampaignLocked
	}

	if err := db.WithContext(ctx).Delete(c).Error; err != nil {
		return fmt.Errorf("failed to delete campaign %d: %w", id, err)
	}

	return nil
}

// ClaimCampaign moves a draft or scheduled campaign to sending.
// Only one caller can claim a campaign; the others get ErrCampaignLocked.
func ClaimCampaign(ctx context.Context, db *gorm.DB, id uint) (*models.NewsletterCampaign, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	c, err := GetCampaign(ctx, db, id)
	if err != nil {
		return nil, err
	}

	result := db.WithContext(ctx).Model(&models.NewsletterCampaign{}).
		Where("id = ? AND status IN ?", id, []models.CampaignStatus{models.CampaignDraft, models.CampaignScheduled}).
		Update("status", models.CampaignSending)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to claim campaign %d: %w", id, result.Error)
	}

	if result.RowsAffected == 0 {
		return nil, ErrCampaignLocked
	}

	c.Status = models.CampaignSending

	return c, nil
}

// FinishCampaign records the outcome of a send. A campaign nobody received is marked failed.
func FinishCampaign(ctx context.Context, db *gorm.DB, id uint, recipients, failures int) error {
	if db == nil {
		return controller.ErrDBNil
	}

	status := models.CampaignSent
	if recipients == 0 && failures > 0 {
		status = models.CampaignFailed
	}

	now := time.Now()

	if err := db.WithContext(ctx).Model(&models.NewsletterCampaign{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"sent_at":    &now,
			"recipients": recipients,
			"failures":   failures,
		}).Error; err != nil {
		return fmt.Errorf("failed to finish campaign %d: %w", id, err)
	}

	return nil
}

// DueCampaigns returns the ids of scheduled campaigns whose time has come.
func DueCampaigns(ctx context.Context, db *gorm.DB, now time.Time) ([]uint, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var ids []uint
	if err := db.WithContext(ctx).Model(&models.NewsletterCampaign{}).
		Where("status = ? AND scheduled_at <= ?", models.CampaignScheduled, now).
		Order("scheduled_at").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list due campaigns: %w", err)
	}

	return ids, nil
}
