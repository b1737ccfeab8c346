package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/modules/user"
	"github.com/jakubmanczak/quote-engine/pkg/cookie"
	"github.com/jakubmanczak/quote-engine/pkg/logger"
	"github.com/jakubmanczak/quote-engine/pkg/password"
	"github.com/jakubmanczak/quote-engine/pkg/token"
)

// UserDirectory is the user lookup capability the authenticator consumes.
// It is owned by the surrounding application; absence is reported as
// user.ErrNotFound.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByHandle(ctx context.Context, handle string) (user.User, error)
	PasswordHashByHandle(ctx context.Context, handle string) (string, error)
}

// Authenticator resolves inbound request credentials to a user.
//
// It holds no mutable state: authentication is a function of the request
// and database state, with the session prolongation and cookie re-issue as
// its only side effects.
type Authenticator struct {
	users    UserDirectory
	sessions SessionStore
	cookies  *cookie.Manager
	secret   string
	duration time.Duration
	log      *slog.Logger
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithSessionDuration overrides the sliding session duration.
func WithSessionDuration(d time.Duration) Option {
	return func(a *Authenticator) { a.duration = d }
}

// WithLogger sets the logger for operator-visible faults.
func WithLogger(log *slog.Logger) Option {
	return func(a *Authenticator) { a.log = log }
}

// NewAuthenticator wires the authenticator against its collaborators.
// secret is the optional long-lived token-mixing secret; empty is a
// supported degraded mode that the caller should log at startup.
func NewAuthenticator(users UserDirectory, sessions SessionStore, cookies *cookie.Manager, secret string, opts ...Option) *Authenticator {
	a := &Authenticator{
		users:    users,
		sessions: sessions,
		cookies:  cookies,
		secret:   secret,
		duration: DefaultSessionDuration,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SessionDuration returns the configured sliding session duration.
func (a *Authenticator) SessionDuration() time.Duration {
	return a.duration
}

// Authenticate resolves the request's credentials to a user.
//
// The Authorization header takes precedence over the session cookie when
// both are present. Basic credentials are verified against the stored
// password hash; Bearer tokens and cookie values are resolved through the
// session store, sliding the session's expiry forward and re-issuing the
// cookie with the same token on success.
func (a *Authenticator) Authenticate(w http.ResponseWriter, r *http.Request) (user.User, error) {
	cookieToken := a.SessionTokenFromCookie(r)
	header, err := authorizationHeader(r)
	if err != nil {
		return user.User{}, err
	}

	switch {
	case header == "" && cookieToken == "":
		return user.User{}, ErrNoCredentials
	case header != "":
		scheme, data, found := strings.Cut(header, " ")
		if !found {
			return user.User{}, ErrMalformedAuthHeader
		}
		switch scheme {
		case "Basic":
			return a.authViaBasic(r.Context(), data)
		case "Bearer":
			return a.authViaSession(r.Context(), w, data)
		default:
			return user.User{}, ErrUnsupportedAuthScheme
		}
	default:
		return a.authViaSession(r.Context(), w, cookieToken)
	}
}

// AuthenticateCredentials verifies a handle/password pair. It is the login
// path; unknown handles and wrong passwords produce the identical
// ErrInvalidCredentials.
func (a *Authenticator) AuthenticateCredentials(ctx context.Context, handle, passw string) (user.User, error) {
	hash, err := a.users.PasswordHashByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}

	ok, err := password.Verify(passw, hash)
	if err != nil {
		// A corrupt stored hash is an operator problem, not the client's.
		a.log.Error("stored password hash could not be parsed",
			slog.String("handle", handle),
			logger.Error(err),
			logger.Component("auth"),
		)
		return user.User{}, err
	}
	if !ok {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := a.users.GetByHandle(ctx, handle)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}
	return u, nil
}

func (a *Authenticator) authViaBasic(ctx context.Context, data string) (user.User, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return user.User{}, ErrMalformedBasicAuth
	}
	if !utf8.Valid(decoded) {
		return user.User{}, ErrMalformedBasicAuth
	}
	handle, passw, found := strings.Cut(string(decoded), ":")
	if !found {
		return user.User{}, ErrMalformedBasicAuth
	}
	return a.AuthenticateCredentials(ctx, handle, passw)
}

func (a *Authenticator) authViaSession(ctx context.Context, w http.ResponseWriter, rawToken string) (user.User, error) {
	s, err := a.sessions.GetByDigest(ctx, token.Digest(rawToken))
	if err != nil {
		return user.User{}, err
	}
	if s.IsExpired() {
		return user.User{}, ErrSessionExpired
	}

	u, err := a.users.GetByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// The user was deleted out from under a live session.
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, err
	}

	now := time.Now()
	if err := a.sessions.Prolong(ctx, s.ID, now.Add(a.duration), now); err != nil {
		return user.User{}, err
	}

	// Sliding renewal reuses the token, so re-issuing the cookie is
	// transparent to the client.
	a.SetSessionCookie(w, rawToken)
	return u, nil
}

// CreateSession mints a session for userID and returns its metadata along
// with the raw bearer token. This is the only place the raw token ever
// leaves the auth boundary; storage sees its digest only.
func (a *Authenticator) CreateSession(ctx context.Context, userID uuid.UUID) (Session, string, error) {
	rawToken, err := token.Generate(a.secret)
	if err != nil {
		return Session{}, "", fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now()
	s := Session{
		ID:     uuid.Must(uuid.NewV7()),
		UserID: userID,
		Issued: now,
		Expiry: now.Add(a.duration),
	}
	if err := a.sessions.Insert(ctx, s, token.Digest(rawToken)); err != nil {
		return Session{}, "", err
	}
	return s, rawToken, nil
}

// DestroySession removes the session identified by rawToken. Lookups after
// destruction behave identically to a session that never existed.
func (a *Authenticator) DestroySession(ctx context.Context, rawToken string) error {
	s, err := a.sessions.GetByDigest(ctx, token.Digest(rawToken))
	if err != nil {
		return err
	}
	return a.sessions.Delete(ctx, s.ID)
}

// SessionTokenFromCookie extracts the session token carried by the request
// cookie, or "" when absent or empty.
func (a *Authenticator) SessionTokenFromCookie(r *http.Request) string {
	val, err := a.cookies.Get(r, SessionCookieName)
	if err != nil {
		return ""
	}
	return val
}

// SetSessionCookie writes the session cookie with the contractual
// attributes: HttpOnly, Secure, SameSite=Strict, path /, max-age equal to
// the session duration.
func (a *Authenticator) SetSessionCookie(w http.ResponseWriter, rawToken string) {
	a.cookies.Set(w, SessionCookieName, rawToken,
		cookie.WithPath("/"),
		cookie.WithMaxAge(int(a.duration.Seconds())),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)
}

// ClearSessionCookie instructs the client to drop the session cookie.
func (a *Authenticator) ClearSessionCookie(w http.ResponseWriter) {
	a.cookies.Delete(w, SessionCookieName)
}

func authorizationHeader(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	for i := 0; i < len(header); i++ {
		if header[i] < 0x20 || header[i] > 0x7e {
			return "", ErrNonASCIIHeaderCharacters
		}
	}
	return header, nil
}
