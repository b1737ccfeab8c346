package router

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
	"github.com/jakubmanczak/quote-engine/pkg/ratelimiter"
)

// UserStore is the user persistence surface the handlers need. It is
// satisfied by *user.Repository.
type UserStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetAll(ctx context.Context) ([]user.User, error)
	Create(ctx context.Context, u user.User, plaintext string) (user.User, error)
	Update(ctx context.Context, u user.User) error
	SetPassword(ctx context.Context, id uuid.UUID, plaintext string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Auth     *auth.Authenticator
	Users    UserStore
	Sessions auth.SessionStore

	// LoginLimiter throttles credential attempts per client address.
	// Nil disables throttling.
	LoginLimiter *ratelimiter.Bucket

	Log *slog.Logger
}

// New builds the root handler.
func New(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ah := &authHandler{auth: d.Auth, limiter: d.LoginLimiter, log: d.Log}
	r.Post("/auth/login", ah.login)
	r.Post("/auth/clear", ah.clear)

	uh := &usersHandler{auth: d.Auth, users: d.Users, log: d.Log}
	r.Post("/users", uh.create)
	r.Get("/users/{id}", uh.getByID)
	r.Patch("/users/{id}", uh.patch)
	r.Delete("/users/{id}", uh.delete)
	r.Patch("/users/{id}/change-password", uh.changePassword)
	r.Get("/users/user-attributes", uh.allAttributes)

	ih := &infraHandler{auth: d.Auth, users: d.Users, sessions: d.Sessions, log: d.Log}
	r.Get("/infra/all-users", ih.allUsers)
	r.Get("/infra/all-sessions", ih.allSessions)

	return r
}
