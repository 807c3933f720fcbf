package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a platform account. An account always has at least one
// authentication method: a password hash, a Google subject id, or both.
// Emails are lower-cased before write and lookup.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	PasswordHash   string    `gorm:"size:255" json:"-"` // empty for OAuth-only accounts
	GoogleID       *string   `gorm:"uniqueIndex;size:255" json:"-"`
	ProfilePicture string    `gorm:"size:500" json:"profile_picture,omitempty"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	Role           string    `gorm:"size:50;default:user" json:"role"` // user, admin
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the account may use the admin surface.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// HasPassword reports whether password login is possible for this account.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// PublicUser is the account view returned to clients; it never carries
// credential material.
type PublicUser struct {
	ID             uint      `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	IsActive       bool      `json:"is_active"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"`
}

// Public returns the client-safe view of the account.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		IsActive:       u.IsActive,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}
