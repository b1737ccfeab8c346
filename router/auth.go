package router

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/pkg/clientip"
	"github.com/jakubmanczak/quote-engine/pkg/logger"
	"github.com/jakubmanczak/quote-engine/pkg/ratelimiter"
)

const (
	msgTooManyTokens = "Please provide one token at a time."
	msgNoTokens      = "Please provide a token."
	msgLoggedOut     = "Logged out - session destroyed."
	msgThrottled     = "Too many login attempts. Try again later."
	msgBadBody       = "Malformed request body."
)

type authHandler struct {
	auth    *auth.Authenticator
	limiter *ratelimiter.Bucket
	log     *slog.Logger
}

type loginPayload struct {
	// Both the long and short field names are accepted on the wire.
	Login    string `json:"login"`
	Handle   string `json:"handle"`
	Passw    string `json:"passw"`
	Password string `json:"password"`
}

func (p loginPayload) credentials() (handle, password string) {
	handle = p.Handle
	if handle == "" {
		handle = p.Login
	}
	password = p.Password
	if password == "" {
		password = p.Passw
	}
	return handle, password
}

func (h *authHandler) login(w http.ResponseWriter, r *http.Request) {
	if !h.allowAttempt(w, r) {
		return
	}

	var payload loginPayload
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		respondText(w, http.StatusBadRequest, msgBadBody)
		return
	}

	handle, password := payload.credentials()
	u, err := h.auth.AuthenticateCredentials(r.Context(), handle, password)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	_, token, err := h.auth.CreateSession(r.Context(), u.ID)
	if err != nil {
		respondError(w, h.log, err)
		return
	}

	h.auth.SetSessionCookie(w, token)
	h.log.Info("login succeeded", logger.UserID(u.ID.String()))
	respondText(w, http.StatusCreated, token)
}

// allowAttempt consumes a throttle token for the client address. Limiter
// outages fail open: a broken redis must not lock everyone out.
func (h *authHandler) allowAttempt(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil {
		return true
	}
	res, err := h.limiter.Allow(r.Context(), "login:"+clientip.FromRequest(r))
	if err != nil {
		h.log.Warn("login throttle unavailable", "error", err)
		return true
	}
	if !res.Allowed() {
		w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter().Seconds())+1))
		respondText(w, http.StatusTooManyRequests, msgThrottled)
		return false
	}
	return true
}

// clear destroys exactly one session per request. A token may arrive in the
// Authorization header or in the session cookie; the same token in both spots
// counts as one. Two distinct tokens are rejected without destroying either.
func (h *authHandler) clear(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	if !isPrintableASCII(header) {
		respondError(w, h.log, auth.ErrNonASCIIHeaderCharacters)
		return
	}
	cookieToken := h.auth.SessionTokenFromCookie(r)

	if header != "" && cookieToken != "" {
		if header == cookieToken || strings.TrimPrefix(header, "Bearer ") == cookieToken {
			cookieToken = ""
		} else {
			respondText(w, http.StatusBadRequest, msgTooManyTokens)
			return
		}
	}

	switch {
	case header == "" && cookieToken == "":
		respondText(w, http.StatusBadRequest, msgNoTokens)
	case header == "":
		h.destroyAndRespond(w, r, cookieToken)
	default:
		scheme, data, ok := strings.Cut(header, " ")
		if !ok {
			respondError(w, h.log, auth.ErrMalformedAuthHeader)
			return
		}
		if scheme != "Bearer" {
			respondError(w, h.log, auth.ErrClearSessionBearerOnly)
			return
		}
		h.destroyAndRespond(w, r, data)
	}
}

func (h *authHandler) destroyAndRespond(w http.ResponseWriter, r *http.Request, token string) {
	h.auth.ClearSessionCookie(w)
	if err := h.auth.DestroySession(r.Context(), token); err != nil {
		respondError(w, h.log, err)
		return
	}
	respondText(w, http.StatusOK, msgLoggedOut)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return false
		}
	}
	return true
}
