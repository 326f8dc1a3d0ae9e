package daemon

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/config"
	contentctl "github.com/jesite/jesite/internal/db/controller/content"
	"github.com/jesite/jesite/internal/db/controller/permission"
	"github.com/jesite/jesite/internal/db/controller/role"
	sitectl "github.com/jesite/jesite/internal/db/controller/site"
	userctl "github.com/jesite/jesite/internal/db/controller/user"
	"github.com/jesite/jesite/internal/db/models"
	"github.com/jesite/jesite/internal/menu"
)

// EditorRoleName is the role seeded for content editors.
const EditorRoleName = "editor"

// editorItems are the sections the seeded editor role may open.
var editorItems = []menu.Item{menu.Dashboard, menu.Blog, menu.Projects} //nolint:gochecknoglobals

// Seed bootstraps an empty database: the admin and editor roles, the configured admin
// account, the home page sections, the legal pages and the site settings.
// It reports false and changes nothing when any user exists.
func Seed(ctx context.Context, cfg *config.Config, db *gorm.DB) (bool, error) {
	n, err := userctl.Count(ctx, db)
	if err != nil {
		return false, err //nolint:wrapcheck
	}

	if n > 0 {
		return false, nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		report, err := role.MigrateRoles(ctx, tx)
		if err != nil {
			return err //nolint:wrapcheck
		}

		editor, err := role.Create(ctx, tx, role.Input{Name: EditorRoleName, Description: "Content editor"})
		if err != nil {
			return err //nolint:wrapcheck
		}

		if _, err = permission.Replace(ctx, tx, editor.ID, editorItems); err != nil {
			return err //nolint:wrapcheck
		}

		adminRoleID := report.RoleID
		if _, err = userctl.Create(ctx, tx, userctl.CreateInput{
			Email:    cfg.Bootstrap.AdminEmail,
			Username: cfg.Bootstrap.AdminUsername,
			Password: cfg.Bootstrap.AdminPassword,
			Name:     "Administrator",
			RoleID:   &adminRoleID,
		}); err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		if err = seedContent(ctx, tx); err != nil {
			return err
		}

		return sitectl.Save(ctx, tx, sitectl.Defaults(cfg.Title)) //nolint:wrapcheck
	})
	if err != nil {
		return false, err
	}

	log.Warn().
		Str("email", cfg.Bootstrap.AdminEmail).
		Msg("database seeded: change the password of the bootstrap admin")

	return true, nil
}

func seedContent(ctx context.Context, db *gorm.DB) error {
	sections := []models.HomeSection{
		{Key: "hero", Title: "Students doing real consulting", Position: 1,
			Body: "We are a non-profit association of university students delivering projects to companies."},
		{Key: "about", Title: "About us", Position: 2,
			Body: "Our members learn by working on real projects, coached by alumni and professors."},
		{Key: "cta", Title: "Work with us", Position: 3,
			Body: "Tell us about your project: we answer within two working days."},
	}

	for i := range sections {
		if err := contentctl.HomeSections.Create(ctx, db, &sections[i]); err != nil {
			return err //nolint:wrapcheck
		}
	}

	policies := []models.Policy{
		{Slug: "privacy", Title: "Privacy policy", Body: "How we collect and process personal data."},
		{Slug: "cookies", Title: "Cookie policy", Body: "Which cookies this site sets and how to change your choices."},
		{Slug: "terms", Title: "Terms of use", Body: "The terms that apply to the use of this site."},
	}

	for i := range policies {
		if err := contentctl.Policies.Create(ctx, db, &policies[i]); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}
