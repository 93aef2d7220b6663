package domain

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account. PasswordHash is nil for users
// created through social login.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash *string   `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// UserPatch enumerates the self-updatable profile fields.
type UserPatch struct {
	FullName    *string
	PhoneNumber *string
}

// Apply merges the non-nil patch fields into the user.
func (p *UserPatch) Apply(user *User) {
	if p.FullName != nil {
		user.FullName = *p.FullName
	}
	if p.PhoneNumber != nil {
		user.PhoneNumber = *p.PhoneNumber
	}
}

// RefreshToken is a stored, revocable token backing JWT refresh.
type RefreshToken struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}
