package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown to other users.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized out of the backend.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last account change.
	UpdatedAt int64
}

// NewUser creates a user with timestamps set to now. The ID is assigned by
// the store on insert.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// MiniProfile is the compact profile view embedded in activity metadata.
type MiniProfile struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// MiniProfile returns the compact view of the user.
func (u *User) MiniProfile() MiniProfile {
	return MiniProfile{ID: u.ID, DisplayName: u.DisplayName}
}
