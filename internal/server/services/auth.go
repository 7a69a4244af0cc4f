package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/auth"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/repomanager"
)

// TokenResponse is the result of a successful sign-in.
type TokenResponse struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
}

// AuthService checks credentials and issues bearer tokens.
//
// An unknown email and a wrong password produce the same error, and an
// unknown email still pays for one bcrypt comparison.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cipher      Cipher
	hasher      PasswordHasher
	jwtSecret   []byte
	log         logging.Logger

	now func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cipher Cipher, hasher PasswordHasher, jwtSecret string, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		cipher:      cipher,
		hasher:      hasher,
		jwtSecret:   []byte(jwtSecret),
		log:         log.With("module", "auth_service"),
		now:         time.Now,
	}
}

// SignIn verifies email and password and returns a signed access token whose
// claims carry the user's id, email and name.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.repomanager.Users(s.db).FindByEmailHash(ctx, s.cipher.HashForSearch(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.compareDummy(ctx, password)
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	plainEmail, name, err := decryptPII(s.cipher, user)
	if err != nil {
		return nil, err
	}

	token, err := auth.GenerateToken(auth.Subject{UserID: user.ID, Email: plainEmail, Name: name},
		s.jwtSecret, common.AccessTokenValiditySeconds*time.Second, s.now())
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   common.BearerTokenType,
		ExpiresIn:   common.AccessTokenValiditySeconds,
	}, nil
}

// Authenticate verifies a bearer token and returns its claims. Every failure
// wraps common.ErrorUnauthorized.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		s.log.Debug(ctx, "bearer token rejected", "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return claims, nil
}

func (s *AuthService) compareDummy(ctx context.Context, password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("piiguard-dummy-password")
		if err != nil {
			s.log.Error(ctx, "dummy hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}
