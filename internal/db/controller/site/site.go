// Package site stores the global site settings as one json blob in the settings table.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jesite/jesite/internal/db/controller"
	"github.com/jesite/jesite/internal/db/controller/setting"
)

// SettingKey is the settings row holding the site settings.
const SettingKey = "site"

// Social holds the links shown in the footer.
type Social struct {
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
	Linkedin  string `json:"linkedin" validate:"omitempty,url"`
}

// Settings are the site wide values editable in the settings section.
type Settings struct {
	SiteName     string `json:"siteName" validate:"required,max=200"`
	Tagline      string `json:"tagline" validate:"max=300"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"max=50"`
	Address      string `json:"address" validate:"max=300"`
	Social       Social `json:"social"`
}

// Defaults returns the settings used before anything was saved.
func Defaults(title string) Settings {
	return Settings{SiteName: title}
}

// Load reads the stored settings; fallback is returned when none are stored.
func Load(ctx context.Context, db *gorm.DB, fallback Settings) (Settings, error) {
	s, err := setting.Get(ctx, db, SettingKey)
	if errors.Is(err, setting.ErrSettingNotFound) {
		return fallback, nil
	}

	if err != nil {
		return fallback, err
	}

	out := fallback
	if err := json.Unmarshal(s.Value, &out); err != nil {
		return fallback, fmt.Errorf("failed to decode site settings: %w", err)
	}

	return out, nil
}

// Save validates and stores the settings.
func Save(ctx context.Context, db *gorm.DB, in Settings) error {
	if err := controller.Validate(in); err != nil {
		return err
	}

	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode site settings: %w", err)
	}

	_, err = setting.Set(ctx, db, SettingKey, data)

	return err
}
