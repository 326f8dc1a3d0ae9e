// Package newsletter serves the admin api of newsletter subscribers and campaigns.
package newsletter

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	nlctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/newsletter"
	"github.com/jesite/jesite/internal/web/handler"
)

// Path of the newsletter admin api.
const Path = handler.AdminAPIPath + "/newsletter"

// Service is the newsletter admin handler service.
type Service struct {
	db     *gorm.DB
	sender *newsletter.Sender
}

// Handler is the newsletter admin handler.
var Handler = Service{}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	if env.Sender == nil {
		return handler.ErrNilDependency
	}

	s.db = db
	s.sender = env.Sender

	router := app.Group(Path, env.Auth.RequireMenu(menu.Newsletter))
	router.Get("/subscribers", s.ListSubscribers)
	router.Delete("/subscribers/:id", s.DeleteSubscriber)
	router.Get("/campaigns", s.ListCampaigns)
	router.Get("/campaigns/:id", s.GetCampaign)
	router.Post("/campaigns", s.CreateCampaign)
	router.Put("/campaigns/:id", s.UpdateCampaign)
	router.Delete("/campaigns/:id", s.DeleteCampaign)
	router.Post("/campaigns/:id/send", s.SendCampaign)

	return nil
}

// ListSubscribers returns every subscriber, newest first.
func (s *Service) ListSubscribers(c *fiber.Ctx) error {
	subs, err := nlctl.ListSubscribers(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(subs)
}

// DeleteSubscriber removes a subscriber.
func (s *Service) DeleteSubscriber(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := nlctl.DeleteSubscriber(c.UserContext(), s.db, uint64(id)); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ListCampaigns returns every campaign, newest first.
func (s *Service) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := nlctl.ListCampaigns(c.UserContext(), s.db)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(campaigns)
}

// GetCampaign returns one campaign.
func (s *Service) GetCampaign(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	campaign, err := nlctl.GetCampaign(c.UserContext(), s.db, id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(campaign)
}

// CreateCampaign stores a draft, or a scheduled campaign when scheduledAt is set.
func (s *Service) CreateCampaign(c *fiber.Ctx) error {
	var in nlctl.CampaignInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	campaign, err := nlctl.CreateCampaign(c.UserContext(), s.db, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// UpdateCampaign edits a campaign that was not sent yet.
func (s *Service) UpdateCampaign(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	var in nlctl.CampaignInput
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	campaign, err := nlctl.UpdateCampaign(c.UserContext(), s.db, id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(campaign)
}

// DeleteCampaign removes a campaign that is not being sent.
func (s *Service) DeleteCampaign(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	if err := nlctl.DeleteCampaign(c.UserContext(), s.db, id); err != nil {
		return err //nolint:wrapcheck
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SendCampaign delivers a campaign now and reports the outcome.
func (s *Service) SendCampaign(c *fiber.Ctx) error {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		return err
	}

	res, err := s.sender.Send(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}
