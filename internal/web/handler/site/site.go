// Package site serves the public pages of the website.
package site

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	nlctl "github.com/jesite/jesite/internal/db/controller/newsletter"
	sitectl "github.com/jesite/jesite/internal/db/controller/site"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/web/handler"
	"github.com/jesite/jesite/internal/web/navigation"
)

const (
	// ContactPath receives the contact form.
	ContactPath = handler.RootPath + "contact"

	// SubscribePath receives the newsletter form.
	SubscribePath = handler.RootPath + "newsletter/subscribe"

	// UnsubscribePath is the prefix of the links mailed with every newsletter.
	UnsubscribePath = handler.RootPath + "newsletter/unsubscribe"

	homeTeasers = 3
)

// Service is the public site handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the public site handler.
var Handler = Service{}

type contactForm struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Subject string `json:"subject" form:"subject"`
	Message string `json:"message" form:"message"`
}

type subscribeForm struct {
	Email string `json:"email" form:"email"`
}

// Init registers the routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, env *handler.Env) error {
	if err := handler.CheckInit(app, cfg, db, env); err != nil {
		return err
	}

	s.cfg = cfg
	s.db = db

	app.Get(handler.RootPath, s.Home)
	app.Get("/services", s.Services)
	app.Get("/projects", s.Projects)
	app.Get("/blog", s.Blog)
	app.Get("/blog/:slug", s.Post)
	app.Get("/team", s.Team)
	app.Get("/recruitment", s.Recruitment)
	app.Get("/policies/:slug", s.Policy)
	app.Post(ContactPath, s.Contact)
	app.Post(SubscribePath, s.Subscribe)
	app.Get(UnsubscribePath+"/:token", s.Unsubscribe)

	return nil
}

func (s *Service) render(c *fiber.Ctx, name string, nav *navigation.Context, data fiber.Map) error {
	settings, err := sitectl.Load(c.UserContext(), s.db, sitectl.Defaults(s.cfg.Title))
	if err != nil {
		return err //nolint:wrapcheck
	}

	data["Site"] = settings
	data["Navigation"] = nav

	return c.Render(name, data, handler.BaseLayout)
}

// Home renders the home page: its sections and teasers of services and blog.
func (s *Service) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()

	sections, err := contentctl.HomeSections.Public(ctx, s.db)
	if err != nil {
		return err
	}

	services, err := contentctl.Services.Public(ctx, s.db)
	if err != nil {
		return err
	}

	posts, err := contentctl.BlogPosts.Public(ctx, s.db)
	if err != nil {
		return err
	}

	return s.render(c, "index", navigation.Public("Home", "home"), fiber.Map{
		"Sections": sections,
		"Services": services,
		"Posts":    posts[:min(len(posts), homeTeasers)],
	})
}

// Services renders the published services.
func (s *Service) Services(c *fiber.Ctx) error {
	rows, err := contentctl.Services.Public(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return s.render(c, "services", navigation.Public("Services", "services"), fiber.Map{"Services": rows})
}

// Projects renders the published projects.
func (s *Service) Projects(c *fiber.Ctx) error {
	rows, err := contentctl.Projects.Public(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return s.render(c, "projects", navigation.Public("Projects", "projects"), fiber.Map{"Projects": rows})
}

// Blog renders the published posts, newest first.
func (s *Service) Blog(c *fiber.Ctx) error {
	rows, err := contentctl.BlogPosts.Public(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return s.render(c, "blog", navigation.Public("Blog", "blog"), fiber.Map{"Posts": rows})
}

// Post renders one published post.
func (s *Service) Post(c *fiber.Ctx) error {
	post, err := contentctl.BlogPosts.BySlug(c.UserContext(), s.db, c.Params("slug"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	nav := navigation.Public(post.Title, "blog").
		AddBreadcrumb("Blog", "/blog", false).
		AddBreadcrumb(post.Title, "/blog/"+post.Slug, true)

	return s.render(c, "post", nav, fiber.Map{"Post": post})
}

// Team renders the team members.
func (s *Service) Team(c *fiber.Ctx) error {
	rows, err := contentctl.TeamMembers.Public(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return s.render(c, "team", navigation.Public("Team", "team"), fiber.Map{"Members": rows})
}

// Recruitment renders the open positions.
func (s *Service) Recruitment(c *fiber.Ctx) error {
	rows, err := contentctl.JobOpenings.Public(c.UserContext(), s.db)
	if err != nil {
		return err
	}

	return s.render(c, "recruitment", navigation.Public("Join us", "recruitment"), fiber.Map{"Openings": rows})
}

// Policy renders a legal page.
func (s *Service) Policy(c *fiber.Ctx) error {
	policy, err := contentctl.Policies.BySlug(c.UserContext(), s.db, c.Params("slug"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.render(c, "policy", navigation.Public(policy.Title, "policies"), fiber.Map{"Policy": policy})
}

// Contact stores a message of the contact form.
func (s *Service) Contact(c *fiber.Ctx) error {
	var in contactForm
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	msg := &models.ContactMessage{Name: in.Name, Email: in.Email, Subject: in.Subject, Message: in.Message}
	if err := contentctl.Contacts.Create(c.UserContext(), s.db, msg); err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Uint("id", msg.ID).Msg("contact message received")

	return s.done(c, fiber.StatusCreated, fiber.Map{"id": msg.ID}, "/?contact=sent")
}

// Subscribe adds the address of the newsletter form.
func (s *Service) Subscribe(c *fiber.Ctx) error {
	var in subscribeForm
	if err := handler.Bind(c, &in); err != nil {
		return err
	}

	if _, err := nlctl.Subscribe(c.UserContext(), s.db, in.Email); err != nil {
		return err //nolint:wrapcheck
	}

	return s.done(c, fiber.StatusCreated, fiber.Map{"subscribed": true}, "/?newsletter=subscribed")
}

// Unsubscribe deactivates the subscriber owning the token of the link.
func (s *Service) Unsubscribe(c *fiber.Ctx) error {
	sub, err := nlctl.Unsubscribe(c.UserContext(), s.db, c.Params("token"))
	if err != nil {
		return err //nolint:wrapcheck
	}

	return s.render(c, "unsubscribed", navigation.Public("Newsletter", ""), fiber.Map{"Email": sub.Email})
}

// done answers a form post: json clients get body, browsers are redirected.
func (s *Service) done(c *fiber.Ctx, status int, body fiber.Map, redirect string) error {
	if c.Is("json") {
		return c.Status(status).JSON(body)
	}

	return c.Redirect(redirect, fiber.StatusSeeOther)
}
