package auth

import (
	"errors"
	"net/http"

	"github.com/jakubmanczak/quote-engine/pkg/password"
)

var (
	// ErrNoCredentials indicates neither header nor cookie was present.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials covers unknown handles, wrong passwords and
	// sessions whose owning user has been deleted. The cases are
	// deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired covers both expired and never-existing sessions,
	// deliberately indistinguishable.
	ErrSessionExpired = errors.New("session expired")

	// ErrNonASCIIHeaderCharacters indicates the Authorization header
	// carried bytes outside printable ASCII.
	ErrNonASCIIHeaderCharacters = errors.New("non-ascii characters found in authorization header")

	// ErrMalformedAuthHeader indicates the header could not be split into
	// scheme and data.
	ErrMalformedAuthHeader = errors.New("could not parse header auth scheme/data")

	// ErrMalformedBasicAuth indicates Basic credentials that do not decode
	// to valid UTF-8 with a colon separator.
	ErrMalformedBasicAuth = errors.New("basic auth credentials are missing the login/password colon separator")

	// ErrUnsupportedAuthScheme indicates a scheme other than Basic or Bearer.
	ErrUnsupportedAuthScheme = errors.New("unsupported header auth scheme - use Basic or Bearer")

	// ErrClearSessionBearerOnly indicates a logout driven by a header with
	// a scheme other than Bearer.
	ErrClearSessionBearerOnly = errors.New("can only clear sessions via Bearer token requests")
)

// StatusCode maps an error to its HTTP status. The mapping is decided here,
// once; handlers must not re-derive status codes ad hoc.
//
// Credential and session failures are unauthorized, client protocol
// violations are bad requests, everything else (corrupt stored hashes,
// persistence faults) is an opaque internal error.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrNoCredentials),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNonASCIIHeaderCharacters),
		errors.Is(err, ErrMalformedAuthHeader),
		errors.Is(err, ErrMalformedBasicAuth),
		errors.Is(err, ErrUnsupportedAuthScheme),
		errors.Is(err, ErrClearSessionBearerOnly):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the error should be surfaced to the caller
// verbatim; server faults get a generic message instead.
func IsClientError(err error) bool {
	return StatusCode(err) < http.StatusInternalServerError
}

// IsServerFault reports whether the error is an operator-visible fault that
// warrants full server-side logging.
func IsServerFault(err error) bool {
	return StatusCode(err) >= http.StatusInternalServerError || errors.Is(err, password.ErrHashParse)
}
