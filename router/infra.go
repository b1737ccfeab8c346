package router

import (
	"log/slog"
	"net/http"

	"github.com/jakubmanczak/quote-engine/modules/auth"
)

// infraHandler serves the operator-only listings. Only the infradmin may use
// them; a high clearance or the wildcard attribute is not enough.
type infraHandler struct {
	auth     *auth.Authenticator
	users    UserStore
	sessions auth.SessionStore
	log      *slog.Logger
}

func (h *infraHandler) allUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !actor.IsInfradmin() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	users, err := h.users.GetAll(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *infraHandler) allSessions(w http.ResponseWriter, r *http.Request) {
	actor, err := h.auth.Authenticate(w, r)
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	if !actor.IsInfradmin() {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	sessions, err := h.sessions.GetAll(r.Context())
	if err != nil {
		respondError(w, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, sessions)
}
