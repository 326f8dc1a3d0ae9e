// Package cookiepref stores cookie consent choices keyed by the anonymous browser id,
// optionally linked to a logged in user.
package cookiepref

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/models"
)

// ErrPreferenceNotFound is returned when neither the cookie id nor the user has stored choices.
var ErrPreferenceNotFound = fmt.Errorf("cookie preference %w", controller.ErrNotFound)

// Input is a consent choice. Necessary is accepted for symmetry and always stored as true.
type Input struct {
	CookieID   string  `json:"cookieId" validate:"required,max=100"`
	UserID     *uint64 `json:"-"`
	Necessary  bool    `json:"necessary"`
	Analytics  bool    `json:"analytics"`
	Marketing  bool    `json:"marketing"`
	Functional bool    `json:"functional"`
}

// Find returns the choices stored for cookieID, or for userID when the cookie id is unknown.
func Find(ctx context.Context, db *gorm.DB, cookieID string, userID *uint64) (*models.CookiePreference, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	db = db.WithContext(ctx)

	var prefs []models.CookiePreference

	if cookieID = strings.TrimSpace(cookieID); cookieID != "" {
		if err := db.Where("cookie_id = ?", cookieID).Limit(1).Find(&prefs).Error; err != nil {
			return nil, fmt.Errorf("failed to load cookie preference: %w", err)
		}
	}

	if len(prefs) == 0 && userID != nil {
		if err := db.Where("user_id = ?", *userID).Order("updated_at DESC").Limit(1).Find(&prefs).Error; err != nil {
			return nil, fmt.Errorf("failed to load cookie preference of user %d: %w", *userID, err)
		}
	}

	if len(prefs) == 0 {
		return nil, ErrPreferenceNotFound
	}

	return &prefs[0], nil
}

// Upsert stores the choices of one browser.
//
// A stored row linked to the user wins over one matching only the cookie id; it takes over the
// new cookie id and any other row holding that id is dropped. Without a match a row is inserted,
// and an insert racing another one for the same cookie id turns into an update.
func Upsert(ctx context.Context, db *gorm.DB, in Input) (*models.CookiePreference, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	in.CookieID = strings.TrimSpace(in.CookieID)
	if err := controller.Validate(in); err != nil {
		return nil, err //nolint:wrapcheck
	}

	var out models.CookiePreference

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("cookie_id = ?", in.CookieID)
		if in.UserID != nil {
			q = q.Or("user_id = ?", *in.UserID)
		}

		var matches []models.CookiePreference
		if err := q.Order("id").Find(&matches).Error; err != nil {
			return fmt.Errorf("failed to look up cookie preference: %w", err)
		}

		pref := pick(matches, in)
		if pref == nil {
			return insert(tx, in, &out)
		}

		if err := tx.Where("cookie_id = ? AND id <> ?", in.CookieID, pref.ID).
			Delete(&models.CookiePreference{}).Error; err != nil {
			return fmt.Errorf("failed to release cookie id: %w", err)
		}

		pref.CookieID = in.CookieID
		if in.UserID != nil {
			pref.UserID = in.UserID
		}

		apply(pref, in)

		if err := tx.Save(pref).Error; err != nil {
			return fmt.Errorf("failed to update cookie preference %d: %w", pref.ID, err)
		}

		out = *pref

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func pick(matches []models.CookiePreference, in Input) *models.CookiePreference {
	if in.UserID != nil {
		for i := range matches {
			if matches[i].UserID != nil && *matches[i].UserID == *in.UserID {
				return &matches[i]
			}
		}
	}

	for i := range matches {
		if matches[i].CookieID == in.CookieID {
			return &matches[i]
		}
	}

	return nil
}

func insert(tx *gorm.DB, in Input, out *models.CookiePreference) error {
	pref := models.CookiePreference{CookieID: in.CookieID, UserID: in.UserID}
	apply(&pref, in)

	columns := []string{"necessary", "analytics", "marketing", "functional", "updated_at"}
	if in.UserID != nil {
		columns = append(columns, "user_id")
	}

	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cookie_id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&pref).Error; err != nil {
		return fmt.Errorf("failed to store cookie preference: %w", err)
	}

	if err := tx.Where("cookie_id = ?", in.CookieID).First(out).Error; err != nil {
		return fmt.Errorf("failed to reload cookie preference: %w", err)
	}

	return nil
}

func apply(pref *models.CookiePreference, in Input) {
	pref.Necessary = true
	pref.Analytics = in.Analytics
	pref.Marketing = in.Marketing
	pref.Functional = in.Functional
}
