// Package models contains database model definitions.
package models

// Setting is a named json blob; typed views live in the controller packages.
type Setting struct {
	ID    uint64 `gorm:"primaryKey"`
	Name  string `gorm:"unique;size:100;not null"`
	Value []byte
}

// TableName specifies the database table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// All returns every model the schema migration has to create, parents first.
func All() []interface{} {
	return []interface{}{
		&Role{},
		&Permission{},
		&User{},
		&CookiePreference{},
		&Setting{},
		&HomeSection{},
		&Service{},
		&Project{},
		&BlogPost{},
		&TeamMember{},
		&JobOpening{},
		&Policy{},
		&ContactMessage{},
		&NewsletterSubscriber{},
		&NewsletterCampaign{},
	}
}
