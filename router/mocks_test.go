package router_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
	"github.com/jakubmanczak/quote-engine/pkg/password"
)

// fakeUsers backs both the authenticator's directory and the handlers'
// UserStore with one in-memory table.
type fakeUsers struct {
	mu     sync.Mutex
	users  map[uuid.UUID]user.User
	hashes map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:  make(map[uuid.UUID]user.User),
		hashes: make(map[string]string),
	}
}

func (d *fakeUsers) add(u user.User, passwordHash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
	d.hashes[u.Handle] = passwordHash
}

func (d *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (d *fakeUsers) GetByHandle(_ context.Context, handle string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (d *fakeUsers) PasswordHashByHandle(_ context.Context, handle string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	hash, ok := d.hashes[handle]
	if !ok {
		return "", user.ErrNotFound
	}
	return hash, nil
}

func (d *fakeUsers) GetAll(_ context.Context) ([]user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	all := make([]user.User, 0, len(d.users))
	for _, u := range d.users {
		all = append(all, u)
	}
	return all, nil
}

func (d *fakeUsers) Create(_ context.Context, u user.User, plaintext string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.users {
		if existing.Handle == u.Handle {
			return user.User{}, user.ErrHandleTaken
		}
	}
	hash, err := password.Hash(plaintext)
	if err != nil {
		return user.User{}, err
	}
	d.users[u.ID] = u
	d.hashes[u.Handle] = hash
	return u, nil
}

func (d *fakeUsers) Update(_ context.Context, u user.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev, ok := d.users[u.ID]
	if !ok {
		return user.ErrNotFound
	}
	if prev.Handle != u.Handle {
		d.hashes[u.Handle] = d.hashes[prev.Handle]
		delete(d.hashes, prev.Handle)
	}
	d.users[u.ID] = u
	return nil
}

func (d *fakeUsers) SetPassword(_ context.Context, id uuid.UUID, plaintext string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return user.ErrNotFound
	}
	hash, err := password.Hash(plaintext)
	if err != nil {
		return err
	}
	d.hashes[u.Handle] = hash
	return nil
}

func (d *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id == uuid.Max {
		return user.ErrInfradminImmutable
	}
	if u, ok := d.users[id]; ok {
		delete(d.hashes, u.Handle)
		delete(d.users, id)
	}
	return nil
}

// fakeSessions is an in-memory auth.SessionStore with the same absence
// semantics as the Postgres one.
type fakeSessions struct {
	mu       sync.Mutex
	byDigest map[string]auth.Session
	digests  map[uuid.UUID]string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		byDigest: make(map[string]auth.Session),
		digests:  make(map[uuid.UUID]string),
	}
}

func (st *fakeSessions) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byDigest)
}

func (st *fakeSessions) Insert(_ context.Context, s auth.Session, tokenDigest string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.byDigest[tokenDigest] = s
	st.digests[s.ID] = tokenDigest
	return nil
}

func (st *fakeSessions) GetByDigest(_ context.Context, digest string) (auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.byDigest[digest]
	if !ok {
		return auth.Session{}, auth.ErrSessionExpired
	}
	return s, nil
}

func (st *fakeSessions) GetByID(_ context.Context, id uuid.UUID) (auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	digest, ok := st.digests[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionExpired
	}
	return st.byDigest[digest], nil
}

func (st *fakeSessions) GetAll(_ context.Context) ([]auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sessions := make([]auth.Session, 0, len(st.byDigest))
	for _, s := range st.byDigest {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (st *fakeSessions) Prolong(_ context.Context, id uuid.UUID, expiry, lastAccess time.Time) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	digest, ok := st.digests[id]
	if !ok {
		return auth.ErrSessionExpired
	}
	s := st.byDigest[digest]
	s.Expiry = expiry
	s.LastAccess = &lastAccess
	st.byDigest[digest] = s
	return nil
}

func (st *fakeSessions) Delete(_ context.Context, id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if digest, ok := st.digests[id]; ok {
		delete(st.byDigest, digest)
		delete(st.digests, id)
	}
	return nil
}
