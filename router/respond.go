package router

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

// respondError translates domain errors into HTTP responses. Client faults
// echo their message; anything unexpected becomes an opaque 500 so internals
// never reach the wire.
func respondError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, user.ErrHandleTaken):
		respondText(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, user.ErrInfradminImmutable):
		respondText(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, user.ErrHandleLength),
		errors.Is(err, user.ErrHandleInvalidChars),
		errors.Is(err, user.ErrHandleLeadTrailSpecialChars),
		errors.Is(err, user.ErrHandleConsecutiveSpecials),
		errors.Is(err, user.ErrPasswordLength):
		respondText(w, http.StatusBadRequest, err.Error())
		return
	}

	code := auth.StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		respondText(w, code, "Internal server error.")
		return
	}
	respondText(w, code, err.Error())
}
