// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered user account.
//
// WHY PasswordHash HAS json:"-"?
// The bcrypt hash must never leave the server. The "-" tag tells encoding/json
// to skip the field entirely, so even a handler that returns a *User by
// mistake cannot leak it.
//
// Users created through GitHub sign-in have an empty PasswordHash; bcrypt
// rejects an empty hash, so they can never log in with a password.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar"`
	CreatedAt    time.Time `json:"date"`
}
