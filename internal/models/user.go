package models

import "time"

// User is a locally registered account. Password holds the bcrypt hash.
type User struct {
	UID           string    `json:"uid"`
	Email         string    `json:"email"`
	DisplayName   string    `json:"display_name"`
	Password      string    `json:"password"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// Identity is the public view of a signed-in user.
type Identity struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	EmailVerified bool   `json:"email_verified"`
}

// Identity strips the credential fields from u.
func (u User) Identity() Identity {
	return Identity{
		UID:           u.UID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		EmailVerified: u.EmailVerified,
	}
}

// Profile is the per-user record written on sign-up. The ledger fields stay
// nil until the user's workspace is first saved.
type Profile struct {
	UID         string    `json:"uid"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	Learning    *string   `json:"learning"`
	Portfolio   *string   `json:"portfolio"`
	Budget      *string   `json:"budget"`
}
