package newsletter

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	ctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	"github.com/jesite/jesite/internal/db/models"
)

// ErrCampaignNotSendable is returned when the campaign was already claimed or delivered.
var ErrCampaignNotSendable = ctl.ErrCampaignLocked

const unsubscribePath = "/newsletter/unsubscribe/"

// Result summarizes one delivered campaign.
type Result struct {
	CampaignID uint                  `json:"campaignId"`
	Status     models.CampaignStatus `json:"status"`
	Recipients int                   `json:"recipients"`
	Failures   int                   `json:"failures"`
}

// Sender delivers campaigns.
type Sender struct {
	db        *gorm.DB
	mailer    Mailer
	baseURL   string
	batchSize int
}

// NewSender returns a sender linking unsubscribe pages below baseURL.
func NewSender(db *gorm.DB, mailer Mailer, baseURL string, batchSize int) *Sender {
	return &Sender{
		db:        db,
		mailer:    mailer,
		baseURL:   strings.TrimRight(baseURL, "/"),
		batchSize: batchSize,
	}
}

// UnsubscribeURL returns the public link that deactivates the subscriber owning token.
func (s *Sender) UnsubscribeURL(token string) string {
	return s.baseURL + unsubscribePath + token
}

// Send claims the campaign and mails it to every active subscriber.
// A failed delivery is counted and does not stop the campaign.
func (s *Sender) Send(ctx context.Context, campaignID uint) (*Result, error) {
	campaign, err := ctl.ClaimCampaign(ctx, s.db, campaignID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	res := &Result{CampaignID: campaign.ID}

	err = ctl.EachActiveBatch(ctx, s.db, s.batchSize, func(batch []models.NewsletterSubscriber) error {
		for _, sub := range batch {
			if err := ctx.Err(); err != nil {
				return err //nolint:wrapcheck
			}

			sendErr := s.mailer.Send(ctx, Message{
				To:      sub.Email,
				Subject: campaign.Subject,
				Body:    campaign.Body + "\n\n--\nUnsubscribe: " + s.UnsubscribeURL(sub.Token) + "\n",
			})
			countEmail(sendErr)

			if sendErr != nil {
				log.Warn().Err(sendErr).Uint("campaign", campaign.ID).Uint64("subscriber", sub.ID).
					Msg("newsletter delivery failed")

				res.Failures++

				continue
			}

			res.Recipients++
		}

		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("campaign", campaign.ID).Msg("newsletter delivery interrupted")
	}

	// the outcome is recorded even when the request that started the send went away
	finishCtx := context.WithoutCancel(ctx)
	if ferr := ctl.FinishCampaign(finishCtx, s.db, campaign.ID, res.Recipients, res.Failures); ferr != nil {
		return nil, ferr //nolint:wrapcheck
	}

	res.Status = models.CampaignSent
	if res.Recipients == 0 && res.Failures > 0 {
		res.Status = models.CampaignFailed
	}

	log.Info().Uint("campaign", campaign.ID).Int("recipients", res.Recipients).Int("failures", res.Failures).
		Str("status", string(res.Status)).Msg("newsletter campaign delivered")

	return res, err //nolint:wrapcheck
}
