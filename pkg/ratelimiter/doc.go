// Package ratelimiter implements a token bucket rate limiter behind a
// pluggable storage backend.
//
// The login endpoint uses it to throttle credential guessing per client:
// the Redis store shares budgets across replicas, while the in-memory
// store serves single-process deployments and tests.
package ratelimiter
