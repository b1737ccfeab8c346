// Package token produces opaque session tokens and their storage digests.
//
// Session tokens mix an optional long-lived server secret, fresh OS entropy
// and the current time into a 32-byte seed, then stretch the seed through a
// deterministic PRNG. The secret raises the bar against forgery when present
// but is not a hard dependency; callers are expected to log its absence as a
// degraded configuration.
//
// Raw tokens never touch persistent storage. Digest produces the one-way
// SHA-512 key used to look sessions up at rest.
package token
