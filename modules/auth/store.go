package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jakubmanczak/quote-engine/pkg/pg"
)

// SessionStore is the persistence boundary for sessions.
//
// Lookups collapse "no such session" into ErrSessionExpired at this
// boundary already, so no caller can distinguish a destroyed or
// never-issued session from an expired one.
type SessionStore interface {
	Insert(ctx context.Context, s Session, tokenDigest string) error
	GetByDigest(ctx context.Context, digest string) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)

	// Prolong extends the session's expiry and marks the access time.
	// Prolonging a session deleted concurrently is a no-op reported as
	// ErrSessionExpired; it never resurrects the row.
	Prolong(ctx context.Context, id uuid.UUID, expiry, lastAccess time.Time) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// PGSessionStore persists sessions in Postgres.
type PGSessionStore struct {
	pool *pgxpool.Pool
}

// NewPGSessionStore returns a store over the given pool.
func NewPGSessionStore(pool *pgxpool.Pool) *PGSessionStore {
	return &PGSessionStore{pool: pool}
}

func (st *PGSessionStore) Insert(ctx context.Context, s Session, tokenDigest string) error {
	_, err := st.pool.Exec(ctx,
		"INSERT INTO sessions (id, token, user_id, issued, expiry) VALUES ($1, $2, $3, $4, $5)",
		s.ID, tokenDigest, s.UserID, s.Issued, s.Expiry,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (st *PGSessionStore) GetByDigest(ctx context.Context, digest string) (Session, error) {
	return st.getBy(ctx, "SELECT id, user_id, issued, expiry, last_access FROM sessions WHERE token = $1", digest)
}

func (st *PGSessionStore) GetByID(ctx context.Context, id uuid.UUID) (Session, error) {
	return st.getBy(ctx, "SELECT id, user_id, issued, expiry, last_access FROM sessions WHERE id = $1", id)
}

func (st *PGSessionStore) getBy(ctx context.Context, query string, arg any) (Session, error) {
	var s Session
	err := st.pool.QueryRow(ctx, query, arg).Scan(&s.ID, &s.UserID, &s.Issued, &s.Expiry, &s.LastAccess)
	if err != nil {
		if pg.IsNotFoundError(err) {
			// Absent and expired must look identical to callers.
			return Session{}, ErrSessionExpired
		}
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	return s, nil
}

func (st *PGSessionStore) GetAll(ctx context.Context) ([]Session, error) {
	rows, err := st.pool.Query(ctx, "SELECT id, user_id, issued, expiry, last_access FROM sessions ORDER BY issued")
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Issued, &s.Expiry, &s.LastAccess); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (st *PGSessionStore) Prolong(ctx context.Context, id uuid.UUID, expiry, lastAccess time.Time) error {
	tag, err := st.pool.Exec(ctx,
		"UPDATE sessions SET expiry = $1, last_access = $2 WHERE id = $3",
		expiry, lastAccess, id,
	)
	if err != nil {
		return fmt.Errorf("prolong session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionExpired
	}
	return nil
}

func (st *PGSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := st.pool.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
