package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jakubmanczak/quote-engine/pkg/password"
	"github.com/jakubmanczak/quote-engine/pkg/pg"
)

// Repository persists users in Postgres.
//
// Password hashes are write-mostly: they are set on create and password
// change, and read back only as an opaque string for verification. They are
// never hydrated into a User value.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository returns a Repository over the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	return r.getBy(ctx, "SELECT id, handle, clearance, attributes FROM users WHERE id = $1", id)
}

func (r *Repository) GetByHandle(ctx context.Context, handle string) (User, error) {
	return r.getBy(ctx, "SELECT id, handle, clearance, attributes FROM users WHERE handle = $1", handle)
}

func (r *Repository) getBy(ctx context.Context, query string, arg any) (User, error) {
	var (
		u          User
		clearance  int16
		attributes int64
	)
	err := r.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Handle, &clearance, &attributes)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("query user: %w", err)
	}
	u.Clearance = uint8(clearance)
	u.Attributes = Attributes(attributes)
	return u, nil
}

func (r *Repository) GetAll(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, "SELECT id, handle, clearance, attributes FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var (
			u          User
			clearance  int16
			attributes int64
		)
		if err := rows.Scan(&u.ID, &u.Handle, &clearance, &attributes); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		u.Clearance = uint8(clearance)
		u.Attributes = Attributes(attributes)
		users = append(users, u)
	}
	return users, rows.Err()
}

// Create persists u with a freshly derived hash of plaintext. The plaintext
// never leaves this call.
func (r *Repository) Create(ctx context.Context, u User, plaintext string) (User, error) {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return User{}, err
	}

	_, err = r.pool.Exec(ctx,
		"INSERT INTO users (id, handle, clearance, attributes, password_hash) VALUES ($1, $2, $3, $4, $5)",
		u.ID, u.Handle, int16(u.Clearance), int64(u.Attributes), hash,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return User{}, ErrHandleTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// Update persists the mutable fields of u (handle, clearance, attributes).
func (r *Repository) Update(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE users SET handle = $1, clearance = $2, attributes = $3 WHERE id = $4",
		u.Handle, int16(u.Clearance), int64(u.Attributes), u.ID,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrHandleTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored hash for id with a hash of plaintext.
func (r *Repository) SetPassword(ctx context.Context, id uuid.UUID, plaintext string) error {
	hash, err := password.Hash(plaintext)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PasswordHashByHandle returns the stored hash string for verification.
// ErrNotFound deliberately looks the same as a wrong password to callers
// implementing anti-enumeration behavior.
func (r *Repository) PasswordHashByHandle(ctx context.Context, handle string) (string, error) {
	var hash string
	err := r.pool.QueryRow(ctx, "SELECT password_hash FROM users WHERE handle = $1", handle).Scan(&hash)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("query password hash: %w", err)
	}
	return hash, nil
}

// Delete removes the user. The infradmin account is exempt; sessions of the
// deleted user go with it via the schema's cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Max {
		return ErrInfradminImmutable
	}

	tag, err := r.pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
