// Package dashboard provides the admin dashboard and the admin section pages.
package dashboard

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/auth"
	"github.com/jesite/jesite/internal/config"
	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	nlctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	userctl "github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/menu"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "admin"

	// APIPath returns the dashboard figures as json.
	APIPath = handler.AdminAPIPath + "/dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "admin/dashboard"

	// SectionTemplateName is the template of every other admin section.
	SectionTemplateName = "admin/section"
)

// Stats are the figures shown on the dashboard.
type Stats struct {
	Services       int64 `json:"services"`
	Projects       int64 `json:"projects"`
	BlogPosts      int64 `json:"blogPosts"`
	TeamMembers    int64 `json:"teamMembers"`
	JobOpenings    int64 `json:"jobOpenings"`
	Contacts       int64 `json:"contacts"`
	UnreadContacts int64 `json:"unreadContacts"`
	Subscribers    int64 `json:"subscribers"`
	Users          int64 `json:"users"`
}

// Service is the dashboard handler service.
type Service struct {
	cfg  *config.Config
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.db = db
	s.cfg = cfg
	s.auth = env.Auth

	app.Get(Path, s.auth.RequireMenu(menu.Dashboard), s.Get)
	app.Get(Path+"/:section", s.auth.RequireSession(), s.Section)
	app.Get(APIPath, s.auth.RequireMenu(menu.Dashboard), s.GetJSON)

	return nil
}

// Get renders the dashboard page.
func (s *Service) Get(c *fiber.Ctx) error {
	stats, err := s.stats(c.UserContext())
	if err != nil {
		return err
	}

	entries, err := s.auth.VisibleMenu(c.UserContext(), auth.CallerFrom(c))
	if err != nil {
		return err //nolint:wrapcheck
	}

	nav := navigation.NewContext("Dashboard", "admin", menu.Dashboard.String()).
		WithMenu(entries).
		AddBreadcrumb("Admin", Path, false).
		AddBreadcrumb("Dashboard", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       auth.CallerFrom(c).User,
		"Stats":      stats,
	}, handler.BaseLayout)
}

// GetJSON returns the dashboard figures.
func (s *Service) GetJSON(c *fiber.Ctx) error {
	stats, err := s.stats(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

// Section renders the page of one admin section. The page talks to the json api of the section.
func (s *Service) Section(c *fiber.Ctx) error {
	item, err := menu.Parse(c.Params("section"))
	if err != nil || item == menu.Dashboard {
		return fiber.ErrNotFound
	}

	caller := auth.CallerFrom(c)

	ok, err := s.auth.CanAccess(c.UserContext(), caller, item)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !ok {
		return auth.ErrUnauthorized
	}

	entries, err := s.auth.VisibleMenu(c.UserContext(), caller)
	if err != nil {
		return err //nolint:wrapcheck
	}

	entry := entryOf(item)
	nav := navigation.NewContext(entry.Label, "admin", item.String()).
		WithMenu(entries).
		AddBreadcrumb("Admin", Path, false).
		AddBreadcrumb(entry.Label, entry.Path, true)

	return c.Render(SectionTemplateName, fiber.Map{
		"Title":      s.cfg.Title,
		"Navigation": nav,
		"User":       caller.User,
		"Section":    entry,
		"API":        sectionAPI(item),
	}, handler.BaseLayout)
}

// sectionAPI is the listing endpoint a section page loads.
func sectionAPI(item menu.Item) string {
	base := handler.AdminAPIPath + "/" + item.String()
	if item == menu.Newsletter {
		return base + "/campaigns"
	}

	return base
}

func entryOf(item menu.Item) menu.Entry {
	for _, e := range menu.All() {
		if e.Item == item {
			return e
		}
	}

	return menu.Entry{Item: item, Label: item.String()}
}

func (s *Service) stats(ctx context.Context) (*Stats, error) {
	var stats Stats

	counters := []struct {
		dst   *int64
		count func(context.Context, *gorm.DB) (int64, error)
	}{
		{&stats.Services, contentctl.Services.Count},
		{&stats.Projects, contentctl.Projects.Count},
		{&stats.BlogPosts, contentctl.BlogPosts.Count},
		{&stats.TeamMembers, contentctl.TeamMembers.Count},
		{&stats.JobOpenings, contentctl.JobOpenings.Count},
		{&stats.Contacts, contentctl.Contacts.Count},
		{&stats.UnreadContacts, contentctl.UnreadContacts},
		{&stats.Subscribers, nlctl.CountActive},
		{&stats.Users, userctl.Count},
	}

	for _, counter := range counters {
		n, err := counter.count(ctx, s.db)
		if err != nil {
			log.Error().Err(err).Msg("failed to load dashboard figures")

			return nil, err
		}

		*counter.dst = n
	}

	return &stats, nil
}
