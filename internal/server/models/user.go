// Package models holds the server-side records shared by repositories,
// services and transports.
package models

import "time"

// User is a stored identity record. Email and Name hold encrypted envelopes,
// EmailHash the deterministic search digest of the plaintext email, and
// PasswordHash a bcrypt hash.
type User struct {
	ID           string
	Email        string
	EmailHash    string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserView is what leaves the service layer: plaintext PII, no credentials.
type UserView struct {
	ID        string
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
