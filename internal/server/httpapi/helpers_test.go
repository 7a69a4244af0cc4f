package httpapi

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/piiguard/internal/cryptox"
	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/dmitrijs2005/piiguard/internal/server/auth"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/dmitrijs2005/piiguard/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/piiguard/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "jwt-test-secret"

var (
	cipherOnce sync.Once
	testCipher *cryptox.Cipher
)

func sharedCipher() *cryptox.Cipher {
	cipherOnce.Do(func() {
		c, err := cryptox.NewCipher("test-secret")
		if err != nil {
			panic(err)
		}
		testCipher = c
	})
	return testCipher
}

// newTestAPI serves the real router over a migrated SQLite database.
func newTestAPI(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := repomanager.NewSQLiteRepositoryManager()
	require.NoError(t, m.RunMigrations(context.Background(), db))

	h := cryptox.NewPasswordHasher(bcrypt.MinCost)
	log := logging.Discard()

	us := services.NewUserService(db, m, sharedCipher(), h, log)
	as := services.NewAuthService(db, m, sharedCipher(), h, testJWTSecret, log)

	srv := httptest.NewServer(NewRouter(us, as, db, log))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path, token string, body any) *http.Response {
	t.Helper()

	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func register(t *testing.T, srv *httptest.Server, email, password, name string) map[string]any {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/users", "", map[string]string{"email": email, "password": password, "name": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[map[string]any](t, resp)
}

func login(t *testing.T, srv *httptest.Server, email, password string) TokenResponse {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[TokenResponse](t, resp)
}

// Scripted services for error-path tests.

type fakeUsers struct {
	registerErr error
	getErr      error
	listErr     error
	panicOnList bool
}

func (f *fakeUsers) Register(context.Context, string, string, string) (*models.UserView, error) {
	return nil, f.registerErr
}

func (f *fakeUsers) GetByID(context.Context, string) (*models.UserView, error) {
	return nil, f.getErr
}

func (f *fakeUsers) ListAll(context.Context) ([]*models.UserView, error) {
	if f.panicOnList {
		panic("boom")
	}
	return nil, f.listErr
}

type allowAll struct{}

func (allowAll) Authenticate(context.Context, string) (*auth.Claims, error) {
	c := &auth.Claims{Email: "x@y.com"}
	c.Subject = "user-1"
	return c, nil
}

func (allowAll) SignIn(context.Context, string, string) (*services.TokenResponse, error) {
	return nil, nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type recLogger struct {
	mu   sync.Mutex
	msgs []string
	args [][]any
}

func (r *recLogger) add(msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func (r *recLogger) Debug(_ context.Context, msg string, args ...any) { r.add(msg, args) }
func (r *recLogger) Info(_ context.Context, msg string, args ...any)  { r.add(msg, args) }
func (r *recLogger) Warn(_ context.Context, msg string, args ...any)  { r.add(msg, args) }
func (r *recLogger) Error(_ context.Context, msg string, args ...any) { r.add(msg, args) }
func (r *recLogger) With(...any) logging.Logger                       { return r }

func (r *recLogger) has(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

func (r *recLogger) argsFor(msg string) ([]any, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.msgs {
		if m == msg {
			return r.args[i], true
		}
	}
	return nil, false
}

// kv returns the value logged under key, or nil.
func kv(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}
