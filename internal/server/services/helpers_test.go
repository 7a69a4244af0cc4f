package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/piiguard/internal/cryptox"
	"github.com/dmitrijs2005/piiguard/internal/dbx"
	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testCryptoSecret = "test-secret"
	testJWTSecret    = "jwt-test-secret"
)

var (
	cipherOnce sync.Once
	testCipher *cryptox.Cipher
)

// sharedCipher derives the scrypt key once for the whole package.
func sharedCipher(t *testing.T) *cryptox.Cipher {
	t.Helper()
	cipherOnce.Do(func() {
		c, err := cryptox.NewCipher(testCryptoSecret)
		if err != nil {
			panic(err)
		}
		testCipher = c
	})
	return testCipher
}

type testEnv struct {
	db    *sql.DB
	users *UserService
	auth  *AuthService
}

// newTestEnv wires both services to a migrated SQLite database on disk.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "piiguard.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), db))

	c := sharedCipher(t)
	h := cryptox.NewPasswordHasher(bcrypt.MinCost)
	log := logging.Discard()

	return &testEnv{
		db:    db,
		users: NewUserService(db, m, c, h, log),
		auth:  NewAuthService(db, m, c, h, testJWTSecret, log),
	}
}

// fakeUsersRepo is a scripted users.Repository.
type fakeUsersRepo struct {
	findByHashOut *models.User
	findByHashErr error

	findByIDOut *models.User
	findByIDErr error

	findAllOut []*models.User
	findAllErr error

	createErr   error
	createCalls int
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) FindByEmailHash(context.Context, string) (*models.User, error) {
	return f.findByHashOut, f.findByHashErr
}

func (f *fakeUsersRepo) FindByID(context.Context, string) (*models.User, error) {
	return f.findByIDOut, f.findByIDErr
}

func (f *fakeUsersRepo) FindAll(context.Context) ([]*models.User, error) {
	return f.findAllOut, f.findAllErr
}

type fakeRepoManager struct {
	u *fakeUsersRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository          { return m.u }

// countingHasher records how often Verify runs.
type countingHasher struct {
	*cryptox.PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(password, hash string) (bool, error) {
	h.verifies++
	return h.PasswordHasher.Verify(password, hash)
}
