package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/piiguard/internal/common"
	"github.com/dmitrijs2005/piiguard/internal/logging"
)

// Client-facing messages.
const (
	msgUserAlreadyExists  = "User already exists"
	msgInvalidCredentials = "Email or password is incorrect"
	msgUnauthorized       = "Unauthorized"
	msgUserNotFound       = "User not found"
	msgInternal           = "Internal server error"
	msgNotFound           = "Not found"
	msgMethodNotAllowed   = "Method not allowed"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// writeServiceError maps a service error onto a status and message. Errors
// without a mapping are logged in full and reported as a bare 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, log logging.Logger, err error) {
	var verr *validationError

	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, common.ErrorUserAlreadyExists):
		writeError(w, http.StatusBadRequest, msgUserAlreadyExists)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusBadRequest, msgInvalidCredentials)
	case errors.Is(err, common.ErrorUnauthorized):
		writeError(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, common.ErrorUserNotFound):
		writeError(w, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, common.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Password must be at most %d bytes long", maxPasswordBytes))
	default:
		args := []any{
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		}
		if c, ok := ClaimsFromContext(r.Context()); ok {
			args = append(args, "user_id", c.Subject)
		}
		log.Error(r.Context(), "request failed", args...)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}
