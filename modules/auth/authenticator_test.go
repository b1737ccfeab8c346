package auth_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
	"github.com/jakubmanczak/quote-engine/pkg/cookie"
	"github.com/jakubmanczak/quote-engine/pkg/password"
	"github.com/jakubmanczak/quote-engine/pkg/token"
)

type fixture struct {
	authenticator *auth.Authenticator
	directory     *fakeDirectory
	sessions      *fakeSessionStore
	alice         user.User
}

func newFixture(t *testing.T, opts ...auth.Option) *fixture {
	t.Helper()

	directory := newFakeDirectory()
	sessions := newFakeSessionStore()

	alice := user.NewIncomplete("alice")
	hash, err := password.Hash("correcthorse")
	require.NoError(t, err)
	directory.add(alice, hash)

	return &fixture{
		authenticator: auth.NewAuthenticator(directory, sessions, cookie.New(), "test-secret", opts...),
		directory:     directory,
		sessions:      sessions,
		alice:         alice,
	}
}

func basicHeader(handle, passw string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(handle+":"+passw))
}

func request(header, cookieToken string) (*httptest.ResponseRecorder, *http.Request) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	if cookieToken != "" {
		r.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: cookieToken})
	}
	return httptest.NewRecorder(), r
}

func TestAuthenticateCredentialSources(t *testing.T) {
	t.Parallel()

	t.Run("no credentials at all", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request("", "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrNoCredentials)
	})

	t.Run("header without a space separator", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request("Bearertoken", "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrMalformedAuthHeader)
	})

	t.Run("header with non-ascii bytes", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request("Bearer żeton", "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrNonASCIIHeaderCharacters)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request("Digest whatever", "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrUnsupportedAuthScheme)
	})

	t.Run("header takes precedence over cookie", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		// A valid Basic header beats a garbage cookie.
		w, r := request(basicHeader("alice", "correcthorse"), "not-a-real-token")
		u, err := f.authenticator.Authenticate(w, r)
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, u.ID)
	})
}

func TestAuthenticateBasic(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request(basicHeader("alice", "correcthorse"), "")
		u, err := f.authenticator.Authenticate(w, r)
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Handle)

		// Basic auth never creates a session; only login does.
		assert.Zero(t, f.sessions.count())
	})

	t.Run("wrong password and unknown handle are identical", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request(basicHeader("alice", "wrongpassword"), "")
		_, errWrongPass := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, errWrongPass, auth.ErrInvalidCredentials)

		w, r = request(basicHeader("nobody", "whatever"), "")
		_, errNoHandle := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, errNoHandle, auth.ErrInvalidCredentials)
	})

	t.Run("payload that is not base64", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w, r := request("Basic %%%not-base64%%%", "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrMalformedBasicAuth)
	})

	t.Run("payload without a colon", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		data := base64.StdEncoding.EncodeToString([]byte("alicecorrecthorse"))
		w, r := request("Basic "+data, "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrMalformedBasicAuth)
	})

	t.Run("payload that is not valid utf-8", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		data := base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe, ':', 0x80})
		w, r := request("Basic "+data, "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrMalformedBasicAuth)
	})

	t.Run("corrupt stored hash is a server fault", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		mallory := user.NewIncomplete("mallory")
		f.directory.add(mallory, "not a phc hash at all")

		w, r := request(basicHeader("mallory", "whatever"), "")
		_, err := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, password.ErrHashParse)
		assert.Equal(t, http.StatusInternalServerError, auth.StatusCode(err))
	})
}

func TestAuthenticateSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("bearer token resolves, prolongs and re-issues the cookie", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		created, rawToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)

		w, r := request("Bearer "+rawToken, "")
		u, err := f.authenticator.Authenticate(w, r)
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, u.ID)

		// Sliding expiration: strictly later expiry, access marked.
		after, err := f.sessions.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, after.Expiry.After(created.Expiry))
		require.NotNil(t, after.LastAccess)
		assert.False(t, after.LastAccess.Before(created.Issued))

		// Cookie re-issued with the same token and contractual attributes.
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, auth.SessionCookieName, c.Name)
		assert.Equal(t, rawToken, c.Value)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, int(f.authenticator.SessionDuration().Seconds()), c.MaxAge)
	})

	t.Run("cookie token authenticates without a header", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, rawToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)

		w, r := request("", rawToken)
		u, err := f.authenticator.Authenticate(w, r)
		require.NoError(t, err)
		assert.Equal(t, f.alice.ID, u.ID)
	})

	t.Run("unknown and expired tokens fail identically", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, auth.WithSessionDuration(-time.Hour))

		// Expired at birth thanks to the negative duration.
		_, expiredToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)

		w, r := request("Bearer "+expiredToken, "")
		_, errExpired := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, errExpired, auth.ErrSessionExpired)

		w, r = request("Bearer never-was-a-token", "")
		_, errUnknown := f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, errUnknown, auth.ErrSessionExpired)
	})

	t.Run("session of a deleted user is invalid credentials", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, rawToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)
		f.directory.remove(f.alice.ID)

		w, r := request("Bearer "+rawToken, "")
		_, err = f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create returns the raw token exactly once", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		s, rawToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, rawToken)
		assert.Equal(t, f.alice.ID, s.UserID)
		assert.True(t, s.Expiry.After(s.Issued))
		assert.Nil(t, s.LastAccess)

		// Only the digest is stored; the raw token matches nothing directly.
		_, err = f.sessions.GetByDigest(ctx, rawToken)
		require.ErrorIs(t, err, auth.ErrSessionExpired)
		_, err = f.sessions.GetByDigest(ctx, token.Digest(rawToken))
		require.NoError(t, err)
	})

	t.Run("destroyed session behaves like it never existed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		_, rawToken, err := f.authenticator.CreateSession(ctx, f.alice.ID)
		require.NoError(t, err)

		require.NoError(t, f.authenticator.DestroySession(ctx, rawToken))

		w, r := request("Bearer "+rawToken, "")
		_, err = f.authenticator.Authenticate(w, r)
		require.ErrorIs(t, err, auth.ErrSessionExpired)
	})

	t.Run("destroying an unknown token reports expired", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		err := f.authenticator.DestroySession(ctx, "no-such-token")
		require.ErrorIs(t, err, auth.ErrSessionExpired)
	})
}

func TestBootstrapAdminScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	directory := newFakeDirectory()
	sessions := newFakeSessionStore()
	hash, err := password.Hash("admin")
	require.NoError(t, err)
	directory.add(user.NewInfradmin(), hash)

	authenticator := auth.NewAuthenticator(directory, sessions, cookie.New(), "")

	admin, err := authenticator.AuthenticateCredentials(ctx, "admin", "admin")
	require.NoError(t, err)

	_, rawToken, err := authenticator.CreateSession(ctx, admin.ID)
	require.NoError(t, err)
	require.NotEmpty(t, rawToken)

	w, r := request("Bearer "+rawToken, "")
	u, err := authenticator.Authenticate(w, r)
	require.NoError(t, err)
	assert.EqualValues(t, 255, u.Clearance)
	assert.True(t, u.HasAttribute(user.TheEverythingPermission))
	assert.True(t, u.IsInfradmin())
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		code int
	}{
		{auth.ErrNoCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrSessionExpired, http.StatusUnauthorized},
		{auth.ErrNonASCIIHeaderCharacters, http.StatusBadRequest},
		{auth.ErrMalformedAuthHeader, http.StatusBadRequest},
		{auth.ErrMalformedBasicAuth, http.StatusBadRequest},
		{auth.ErrUnsupportedAuthScheme, http.StatusBadRequest},
		{auth.ErrClearSessionBearerOnly, http.StatusBadRequest},
		{password.ErrHashParse, http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, auth.StatusCode(tc.err), "error %v", tc.err)
	}
}
