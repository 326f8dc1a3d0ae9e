// Package daemon wires configuration, database, session storage, the newsletter scheduler
// and the web service into one process.
package daemon

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	"github.com/jesite/jesite/internal/db"
	"github.com/jesite/jesite/internal/newsletter"
	"github.com/jesite/jesite/internal/web"
)

const schedulerStopTimeout = 30 * time.Second

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	storage    fiber.Storage
	scheduler  *newsletter.Scheduler
	webService *web.Service
}

// Start runs the scheduler and the web service until a termination signal arrives.
func (d *Daemon) Start() error {
	d.scheduler.Start()

	go d.webService.WaitShutdown()

	err := d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))

	ctx, cancel := context.WithTimeout(context.Background(), schedulerStopTimeout)
	defer cancel()

	d.scheduler.Stop(ctx)

	if closeErr := d.storage.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close session storage")
	}

	return err
}

// Open connects and migrates the database of cfg.
func Open(cfg *config.Config) (*gorm.DB, error) {
	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = db.Migrate(conn); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return conn, nil
}

// New creates a new Daemon instance with the provided configuration.
// An empty database is seeded with the default roles, admin account and content.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil, nil
	}

	conn, err := Open(cfg)
	if err != nil {
		return nil, err
	}

	if _, err = Seed(context.Background(), cfg, conn); err != nil {
		return nil, err
	}

	storage := SessionStorage(cfg)

	sender := newsletter.NewSender(conn, newsletter.NewMailer(cfg.Mail), cfg.Webserver.URL, cfg.Newsletter.BatchSize)

	scheduler, err := newsletter.NewScheduler(sender, cfg.Newsletter.Schedule)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	webService, err := web.New(cfg, conn, storage, sender)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &Daemon{
		cfg:        cfg,
		db:         conn,
		storage:    storage,
		scheduler:  scheduler,
		webService: webService,
	}, nil
}
