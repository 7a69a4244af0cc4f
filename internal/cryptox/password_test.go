package cryptox

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher_CostBounds(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).Cost())
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)

	ok, err := h.Verify("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrongpassword", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltedPerCall(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_DefaultCostEmbedded(t *testing.T) {
	h := NewPasswordHasher(DefaultPasswordCost)

	hash, err := h.Hash("secret1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultPasswordCost, cost)
}

func TestPasswordHasher_InvalidHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "plain", "$2a$04$short"} {
		ok, err := h.Verify("secret1", bad)
		assert.False(t, ok)
		assert.ErrorIs(t, err, common.ErrInvalidHashFormat, "hash %q", bad)
	}
}

func TestPasswordHasher_TooLong(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("p", 73))
	assert.ErrorIs(t, err, common.ErrPasswordTooLong)
}

func TestPasswordHasher_VerifyRejectsInputPastLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	p := strings.Repeat("a", MaxPasswordBytes)
	hash, err := h.Hash(p)
	require.NoError(t, err)

	ok, err := h.Verify(p, hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(p+"WRONG", hash)
	require.NoError(t, err)
	assert.False(t, ok, "bytes past the limit must not be ignored")
}
