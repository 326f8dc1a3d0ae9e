package models

import "time"

// CampaignStatus is the delivery state of a newsletter campaign.
type CampaignStatus string

const (
	// CampaignDraft is editable and never sent automatically.
	CampaignDraft CampaignStatus = "draft"
	// CampaignScheduled is sent by the scheduler once ScheduledAt has passed.
	CampaignScheduled CampaignStatus = "scheduled"
	// CampaignSending is claimed by a sender.
	CampaignSending CampaignStatus = "sending"
	// CampaignSent was delivered to at least one subscriber.
	CampaignSent CampaignStatus = "sent"
	// CampaignFailed could not be delivered to any subscriber.
	CampaignFailed CampaignStatus = "failed"
)

// NewsletterSubscriber is an email address subscribed to the newsletter.
// Token is the secret used in unsubscribe links.
type NewsletterSubscriber struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"unique;size:255;not null" json:"email"`
	Token     string    `gorm:"unique;size:64;not null" json:"-"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewsletterCampaign is one newsletter issue.
type NewsletterCampaign struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Subject     string         `gorm:"size:255;not null" json:"subject"`
	Body        string         `gorm:"type:text;not null" json:"body"`
	Status      CampaignStatus `gorm:"size:20;not null;index" json:"status"`
	ScheduledAt *time.Time     `json:"scheduledAt"`
	SentAt      *time.Time     `json:"sentAt"`
	Recipients  int            `json:"recipients"`
	Failures    int            `json:"failures"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
