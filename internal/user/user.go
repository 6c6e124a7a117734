package user

import (
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal"
)

const (
	LanguageEnglish = "en"
	LanguageSwahili = "sw"
)

// Profile is the self-service view of an account. Password hashes never leave the repository.
type Profile struct {
	ID                string    `json:"id" db:"id"`
	Email             string    `json:"email" db:"email"`
	FullName          *string   `json:"full_name,omitempty" db:"full_name"`
	Phone             *string   `json:"phone,omitempty" db:"phone"`
	PreferredLanguage string    `json:"preferred_language" db:"preferred_language"`
	Roles             []string  `json:"roles" db:"-"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileChanges holds the columns to overwrite; nil fields are left alone.
type ProfileChanges struct {
	FullName          *string
	Phone             *string
	PreferredLanguage *string
}

func (c ProfileChanges) Empty() bool {
	return c.FullName == nil && c.Phone == nil && c.PreferredLanguage == nil
}

var ErrUserNotFound = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
