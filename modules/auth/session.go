package auth

import (
	"time"

	"github.com/google/uuid"
)

const (
	// SessionCookieName is the fixed name of the session cookie.
	SessionCookieName = "qesesh"

	// DefaultSessionDuration is how long a session lives without renewal.
	// Every successful authenticated use slides the expiry forward by the
	// same amount.
	DefaultSessionDuration = 7 * 24 * time.Hour
)

// Session is the server-side record of a logged-in client.
//
// The raw bearer token is handed out exactly once, at creation; only its
// one-way digest is persisted. LastAccess is nil until the session is first
// used after login.
type Session struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Issued     time.Time  `json:"issued"`
	Expiry     time.Time  `json:"expiry"`
	LastAccess *time.Time `json:"last_access"`
}

// IsExpired reports whether the session's expiry has passed. An expired
// session is treated as nonexistent everywhere; expiry is never an explicit
// state transition written to storage.
func (s Session) IsExpired() bool {
	return !s.Expiry.After(time.Now())
}
