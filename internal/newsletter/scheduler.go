package newsletter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	ctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	"github.com/jesite/jesite/internal/logger/adapter/stdlogger"
)

// Scheduler periodically sends the scheduled campaigns that are due.
type Scheduler struct {
	cron   *cron.Cron
	sender *Sender
	now    func() time.Time
}

// NewScheduler registers the due campaign job on spec, a standard cron expression
// or a descriptor like "@every 1m". Runs of the job never overlap.
func NewScheduler(sender *Sender, spec string) (*Scheduler, error) {
	logger := stdlogger.New("newsletter")

	s := &Scheduler{
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		sender: sender,
		now:    time.Now,
	}

	if _, err := s.cron.AddFunc(spec, func() { s.RunDue(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid newsletter schedule %q: %w", spec, err)
	}

	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn().Msg("newsletter scheduler did not stop in time")
	}
}

// RunDue sends every scheduled campaign whose time has passed and returns how many were sent.
// Campaigns claimed in the meantime by a manual send are skipped.
func (s *Scheduler) RunDue(ctx context.Context) int {
	ids, err := ctl.DueCampaigns(ctx, s.sender.db, s.now())
	if err != nil {
		log.Error().Err(err).Msg("failed to look up due campaigns")

		return 0
	}

	sent := 0

	for _, id := range ids {
		_, err := s.sender.Send(ctx, id)

		switch {
		case errors.Is(err, ErrCampaignNotSendable):
			log.Debug().Uint("campaign", id).Msg("campaign already claimed")
		case err != nil:
			log.Error().Err(err).Uint("campaign", id).Msg("failed to send scheduled campaign")
		default:
			sent++
		}
	}

	return sent
}
