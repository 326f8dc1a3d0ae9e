// Package content provides the CRUD operations shared by every editable content type of the site.
package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

// Store binds the generic operations to one model.
type Store[T any] struct {
	// Name is used in error messages.
	Name string
	// Order is the ORDER BY clause of listings.
	Order string
	// Visible is the boolean column a public listing filters on, empty when every row is public.
	Visible string
	// Slug is the column public pages address rows by, empty when rows have none.
	Slug string
	// Prepare runs before every create and update.
	Prepare func(*T)
}

// The stores of the site.
var (
	HomeSections = Store[models.HomeSection]{Name: "home section", Order: "position, id", Slug: "key"}
	Services     = Store[models.Service]{Name: "service", Order: "position, id", Visible: "published", Slug: "slug"}
	Projects     = Store[models.Project]{Name: "project", Order: "id DESC", Visible: "published", Slug: "slug"}
	BlogPosts    = Store[models.BlogPost]{
		Name: "blog post", Order: "published_at DESC, id DESC", Visible: "published", Slug: "slug",
		Prepare: stampPublished,
	}
	TeamMembers = Store[models.TeamMember]{Name: "team member", Order: "sort_order, id"}
	JobOpenings = Store[models.JobOpening]{Name: "job opening", Order: "id DESC", Visible: "open", Slug: "slug"}
	Policies    = Store[models.Policy]{Name: "policy", Order: "slug", Slug: "slug"}
	Contacts    = Store[models.ContactMessage]{Name: "contact message", Order: "created_at DESC, id DESC"}
)

func (s Store[T]) notFound() error {
	return fmt.Errorf("%s %w", s.Name, controller.ErrNotFound)
}

func (s Store[T]) conflict() error {
	return fmt.Errorf("%s %w", s.Name, controller.ErrConflict)
}

// List returns every row.
func (s Store[T]) List(ctx context.Context, db *gorm.DB) ([]T, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out []T
	if err := db.WithContext(ctx).Order(s.Order).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Name, err)
	}

	return out, nil
}

// Public returns the rows visitors may see.
func (s Store[T]) Public(ctx context.Context, db *gorm.DB) ([]T, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	q := db.WithContext(ctx).Order(s.Order)
	if s.Visible != "" {
		q = q.Where(s.Visible+" = ?", true)
	}

	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.Name, err)
	}

	return out, nil
}

// Get returns one row by id.
func (s Store[T]) Get(ctx context.Context, db *gorm.DB, id uint) (*T, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var out T

	err := db.WithContext(ctx).First(&out, id).Error
	if controller.IsNotFound(err) {
		return nil, s.notFound()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load %s %d: %w", s.Name, id, err)
	}

	return &out, nil
}

// BySlug returns the visible row addressed by slug.
func (s Store[T]) BySlug(ctx context.Context, db *gorm.DB, slug string) (*T, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if s.Slug == "" {
		return nil, s.notFound()
	}

	q := db.WithContext(ctx).Where(s.Slug+" = ?", strings.TrimSpace(slug))
	if s.Visible != "" {
		q = q.Where(s.Visible+" = ?", true)
	}

	var out T

	err := q.First(&out).Error
	if controller.IsNotFound(err) {
		return nil, s.notFound()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load %s %q: %w", s.Name, slug, err)
	}

	return &out, nil
}

// Create validates and stores v.
func (s Store[T]) Create(ctx context.Context, db *gorm.DB, v *T) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if s.Prepare != nil {
		s.Prepare(v)
	}

	if err := controller.Validate(v); err != nil {
		return err
	}

	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		if controller.IsDuplicate(err) {
			return s.conflict()
		}

		return fmt.Errorf("failed to create %s: %w", s.Name, err)
	}

	return nil
}

// Update overwrites every column of row id with v and reloads v.
func (s Store[T]) Update(ctx context.Context, db *gorm.DB, id uint, v *T) error {
	if db == nil {
		return controller.ErrDBNil
	}

	if s.Prepare != nil {
		s.Prepare(v)
	}

	if err := controller.Validate(v); err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to load %s %d: %w", s.Name, id, err)
		}

		if n == 0 {
			return s.notFound()
		}

		if err := tx.Model(new(T)).
			Where("id = ?", id).
			Select("*").
			Omit("id", "created_at").
			Updates(v).Error; err != nil {
			if controller.IsDuplicate(err) {
				return s.conflict()
			}

			return fmt.Errorf("failed to update %s %d: %w", s.Name, id, err)
		}

		return tx.First(v, id).Error
	})
}

// Delete removes row id.
func (s Store[T]) Delete(ctx context.Context, db *gorm.DB, id uint) error {
	if db == nil {
		return controller.ErrDBNil
	}

	result := db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", s.Name, id, result.Error)
	}

	if result.RowsAffected == 0 {
		return s.notFound()
	}

	return nil
}

// Count returns the number of rows.
func (s Store[T]) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, controller.ErrDBNil
	}

	var n int64
	if err := db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.Name, err)
	}

	return n, nil
}

func stampPublished(p *models.BlogPost) {
	if p.Published && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}
}
