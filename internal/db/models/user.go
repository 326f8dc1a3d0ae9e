package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// User is a back office account.
// RoleID is nullable: accounts created before roles existed only carry the legacy role string
// until the role migration assigns them a role.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Name is the display name.
	Name string `gorm:"size:200" json:"name"`
	// Email is unique and used as the session subject.
	Email string `gorm:"unique;size:255;not null" json:"email"`
	// Username is the unique login name.
	Username string `gorm:"unique;size:100;not null" json:"username"`
	// Password is the Argon2id hash, never serialized.
	Password string `gorm:"size:255;not null" json:"-"`
	// LegacyRole is the free form role string of the pre-RBAC schema.
	LegacyRole string `gorm:"column:role;size:100" json:"role"`
	// RoleID is the ID of the role assigned to this user.
	RoleID *uint `gorm:"column:role_id;index" json:"roleId"`
	// Role is the associated role (enforced with a foreign key constraint).
	Role *Role `gorm:"foreignKey:RoleID;references:ID;constraint:OnDelete:RESTRICT,OnUpdate:CASCADE" json:"roleRef,omitempty"`
	// Active users can log in.
	Active bool `json:"active"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the database table name for the User model.
func (User) TableName() string {
	return "users"
}

// HashPassword hashes a plaintext password using Argon2id with a random salt.
func HashPassword(password string) (string, error) {
	hashed, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}

	return hashed, nil
}

// VerifyPassword compares a plaintext password with the stored hash in constant time.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("failed to verify password")
		return false
	}

	return match
}
