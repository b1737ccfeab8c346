package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakubmanczak/quote-engine/modules/auth"
	"github.com/jakubmanczak/quote-engine/modules/user"
)

// fakeDirectory is an in-memory UserDirectory.
type fakeDirectory struct {
	mu     sync.Mutex
	users  map[uuid.UUID]user.User
	hashes map[string]string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:  make(map[uuid.UUID]user.User),
		hashes: make(map[string]string),
	}
}

func (d *fakeDirectory) add(u user.User, passwordHash string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
	d.hashes[u.Handle] = passwordHash
}

func (d *fakeDirectory) remove(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if u, ok := d.users[id]; ok {
		delete(d.hashes, u.Handle)
		delete(d.users, id)
	}
}

func (d *fakeDirectory) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (d *fakeDirectory) GetByHandle(_ context.Context, handle string) (user.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (d *fakeDirectory) PasswordHashByHandle(_ context.Context, handle string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	hash, ok := d.hashes[handle]
	if !ok {
		return "", user.ErrNotFound
	}
	return hash, nil
}

// fakeSessionStore is an in-memory SessionStore with the same absence
// semantics as the Postgres one.
type fakeSessionStore struct {
	mu       sync.Mutex
	byDigest map[string]auth.Session
	digests  map[uuid.UUID]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		byDigest: make(map[string]auth.Session),
		digests:  make(map[uuid.UUID]string),
	}
}

func (st *fakeSessionStore) count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byDigest)
}

func (st *fakeSessionStore) Insert(_ context.Context, s auth.Session, tokenDigest string) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.byDigest[tokenDigest] = s
	st.digests[s.ID] = tokenDigest
	return nil
}

func (st *fakeSessionStore) GetByDigest(_ context.Context, digest string) (auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.byDigest[digest]
	if !ok {
		return auth.Session{}, auth.ErrSessionExpired
	}
	return s, nil
}

func (st *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	digest, ok := st.digests[id]
	if !ok {
		return auth.Session{}, auth.ErrSessionExpired
	}
	return st.byDigest[digest], nil
}

func (st *fakeSessionStore) GetAll(_ context.Context) ([]auth.Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sessions := make([]auth.Session, 0, len(st.byDigest))
	for _, s := range st.byDigest {
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (st *fakeSessionStore) Prolong(_ context.Context, id uuid.UUID, expiry, lastAccess time.Time) error {
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

func (st *fakeSessionStore) Delete(_ context.Context, id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if digest, ok := st.digests[id]; ok {
		delete(st.byDigest, digest)
		delete(st.digests, id)
	}
	return nil
}
