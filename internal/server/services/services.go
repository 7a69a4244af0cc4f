// Package services contains server-side business logic: user registration
// and lookup (UserService) and credential sign-in (AuthService). Services
// work on plaintext at their edges and on encrypted records in storage.
package services

import (
	"fmt"

	"github.com/dmitrijs2005/piiguard/internal/server/models"
)

// Cipher encrypts PII fields and computes their search digest.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
	HashForSearch(plaintext string) string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// decryptPII returns the plaintext email and name of a stored user.
func decryptPII(c Cipher, u *models.User) (email, name string, err error) {
	if email, err = c.Decrypt(u.Email); err != nil {
		return "", "", fmt.Errorf("decrypt email: %w", err)
	}
	if name, err = c.Decrypt(u.Name); err != nil {
		return "", "", fmt.Errorf("decrypt name: %w", err)
	}
	return email, name, nil
}

func toView(c Cipher, u *models.User) (*models.UserView, error) {
	email, name, err := decryptPII(c, u)
	if err != nil {
		return nil, err
	}

	return &models.UserView{
		ID:        u.ID,
		Email:     email,
		Name:      name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}, nil
}
