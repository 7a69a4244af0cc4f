// Package users stores identity records. Email and name arrive here already
// encrypted; the repository never sees plaintext PII or passwords.
//
// Storage must enforce uniqueness of email_hash. Registration checks for a
// duplicate before inserting, but two concurrent registrations can both pass
// that check; the constraint turns the loser into common.ErrorAlreadyExists.
package users

import (
	"context"

	"github.com/dmitrijs2005/piiguard/internal/server/models"
)

type Repository interface {
	// Create assigns ID, CreatedAt and UpdatedAt and persists user.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmailHash(ctx context.Context, emailHash string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// FindAll returns every user in storage order.
	FindAll(ctx context.Context) ([]*models.User, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}
