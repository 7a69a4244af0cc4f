package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPasswordCost is the bcrypt work factor used when none is configured.
const DefaultPasswordCost = 10

// MaxPasswordBytes is the longest password bcrypt reads; input past it is
// ignored by the algorithm.
const MaxPasswordBytes = 72

// PasswordHasher produces and verifies bcrypt password hashes.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. A cost outside
// bcrypt's accepted range falls back to DefaultPasswordCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultPasswordCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int {
	return h.cost
}

// Hash returns a self-describing bcrypt hash ($2a$<cost>$<salt+digest>).
// Every call uses a fresh salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", common.ErrPasswordTooLong
		}
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

// Verify reports whether password matches hash. A wrong password is not an
// error; only a structurally invalid hash yields common.ErrInvalidHashFormat.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	// Longer input can never have been hashed, and bcrypt would compare only
	// its prefix.
	if len(password) > MaxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", common.ErrInvalidHashFormat, err)
	}
}
