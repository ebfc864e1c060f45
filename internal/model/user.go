// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// Two login paths populate this struct:
//   - Email + password registration: Email and PasswordHash are set.
//   - GitHub OAuth: GitHubID is set and PasswordHash stays empty.
//
// Email is the login identifier, so it's always present and stored
// lower-cased — collaboration invites match on it case-insensitively.
// An empty PasswordHash simply means "this account has no password login".
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	GitHubID     int64     `json:"githubId,omitempty"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatarUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
