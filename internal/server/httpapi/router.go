// Package httpapi is the REST surface of the identity service: user
// registration and lookup, credential login and a health probe.
package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/piiguard/internal/logging"
	"github.com/go-chi/chi/v5"
)

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(us UserService, as AuthService, db Pinger, l logging.Logger) http.Handler {
	log := l.With("module", "http_api")
	h := &handlers{users: us, auth: as, db: db, log: log}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger(log))
	r.Use(recoverer(log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
	})

	r.Get("/healthz", h.healthz)
	r.Post("/auth/login", h.login)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", h.createUser)

		r.Group(func(r chi.Router) {
			r.Use(requireBearer(as))
			r.Get("/", h.listUsers)
			r.Get("/{id}", h.getUser)
		})
	})

	return r
}
