// Package auth is the authorization core of the quote engine.
//
// It authenticates inbound requests against three credential sources
// (session cookie, Basic credentials, Bearer tokens), manages the session
// lifecycle (create, sliding renewal, destroy, lazy expiry) and defines the
// error taxonomy with its single central HTTP status mapping.
//
// The package consumes a user directory and a session store; it owns no
// state of its own beyond configuration. Authentication errors are
// deliberately coarse: an unknown handle is indistinguishable from a wrong
// password, and a session that never existed is indistinguishable from one
// that expired, so the API cannot be used as an existence oracle.
package auth
