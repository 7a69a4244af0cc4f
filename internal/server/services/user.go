package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/dmitrijs2005/piiguard/internal/dbx"
	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/repomanager"
)

// UserService registers users and reads them back with PII decrypted.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      Cipher
	hasher      PasswordHasher
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cipher Cipher, hasher PasswordHasher, log logging.Logger) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		hasher:      hasher,
		log:         log.With("module", "user_service"),
	}
}

// Register creates a user. The duplicate check and the insert run in one
// transaction; a unique violation from storage still maps to
// common.ErrorUserAlreadyExists when two registrations race.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.UserView, error) {
	emailHash := s.cipher.HashForSearch(email)

	var created *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		_, err := repo.FindByEmailHash(ctx, emailHash)
		if err == nil {
			return common.ErrorUserAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("find user: %w", err)
		}

		passwordHash, err := s.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		encEmail, err := s.cipher.Encrypt(email)
		if err != nil {
			return fmt.Errorf("encrypt email: %w", err)
		}
		encName, err := s.cipher.Encrypt(name)
		if err != nil {
			return fmt.Errorf("encrypt name: %w", err)
		}

		created, err = repo.Create(ctx, &models.User{
			Email:        encEmail,
			EmailHash:    emailHash,
			Name:         encName,
			PasswordHash: passwordHash,
		})
		if err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				s.log.Warn(ctx, "registration lost a uniqueness race")
				return common.ErrorUserAlreadyExists
			}
			return fmt.Errorf("create user: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return toView(s.cipher, created)
}

// GetByID returns the decrypted view of one user.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	user, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return toView(s.cipher, user)
}

// ListAll returns every user, decrypted, in repository order.
func (s *UserService) ListAll(ctx context.Context) ([]*models.UserView, error) {
	users, err := s.repomanager.Users(s.db).FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	views := make([]*models.UserView, 0, len(users))
	for _, u := range users {
		v, err := toView(s.cipher, u)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}

	return views, nil
}
