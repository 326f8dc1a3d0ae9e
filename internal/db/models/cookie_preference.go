package models

import "time"

// CookiePreference stores the consent choices of one browser, optionally linked to a user.
// Necessary cookies cannot be refused, so Necessary is always stored as true.
type CookiePreference struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	CookieID   string    `gorm:"column:cookie_id;unique;size:100;not null" json:"cookieId"`
	UserID     *uint64   `gorm:"column:user_id;index" json:"userId"`
	Necessary  bool      `gorm:"not null;default:true" json:"necessary"`
	Analytics  bool      `gorm:"not null;default:false" json:"analytics"`
	Marketing  bool      `gorm:"not null;default:false" json:"marketing"`
	Functional bool      `gorm:"not null;default:false" json:"functional"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the CookiePreference model.
func (CookiePreference) TableName() string {
	return "cookie_preferences"
}
