// Package pg manages the PostgreSQL connection pool and schema bootstrap.
//
// Connect establishes a pgx pool with retry backoff for reliable startup
// ordering against the database container. Migrate applies the embedded
// goose migrations so a fresh database is usable without external tooling.
package pg
