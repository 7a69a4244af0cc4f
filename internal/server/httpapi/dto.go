package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/piiguard/internal/cryptox"
	"github.com/dmitrijs2005/piiguard/internal/server/models"
	"github.com/dmitrijs2005/piiguard/internal/server/services"
)

const (
	maxBodyBytes = 1 << 20

	minPasswordLength = 6
	maxPasswordBytes  = cryptox.MaxPasswordBytes
)

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// CreateUserRequest is the body of POST /users.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (r *CreateUserRequest) validate() error {
	var errs []error

	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, invalid("Email is required"))
	} else if !isEmail(r.Email) {
		errs = append(errs, invalid("Email must be a valid email address"))
	}

	switch {
	case r.Password == "":
		errs = append(errs, invalid("Password is required"))
	case len(r.Password) < minPasswordLength:
		errs = append(errs, invalid("Password must be at least %d characters long", minPasswordLength))
	case len(r.Password) > maxPasswordBytes:
		errs = append(errs, invalid("Password must be at most %d bytes long", maxPasswordBytes))
	}

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, invalid("Name is required"))
	}

	return joinValidation(errs)
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) validate() error {
	var errs []error
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, invalid("Email is required"))
	}
	if r.Password == "" {
		errs = append(errs, invalid("Password is required"))
	}
	return joinValidation(errs)
}

// UserResponse is the public JSON form of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(v *models.UserView) UserResponse {
	return UserResponse{
		ID:        v.ID,
		Email:     v.Email,
		Name:      v.Name,
		CreatedAt: v.CreatedAt.UTC(),
		UpdatedAt: v.UpdatedAt.UTC(),
	}
}

// TokenResponse is the body returned by POST /auth/login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func newTokenResponse(t *services.TokenResponse) TokenResponse {
	return TokenResponse{AccessToken: t.AccessToken, TokenType: t.TokenType, ExpiresIn: t.ExpiresIn}
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown
// fields and oversized bodies.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxErr):
			return invalid("Request body must not be larger than %d bytes", maxErr.Limit)
		case errors.As(err, &typeErr):
			return invalid("Field %q has the wrong type", typeErr.Field)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return invalid("Unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field "))
		case errors.Is(err, io.EOF):
			return invalid("Request body must not be empty")
		default:
			return invalid("Invalid request body")
		}
	}

	if dec.More() {
		return invalid("Request body must contain a single JSON object")
	}

	return nil
}

// isEmail accepts a bare addr-spec with a dotted domain; display names
// ("Bob <b@c.com>") are rejected.
func isEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func joinValidation(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return &validationError{msg: strings.Join(msgs, "; ")}
}
