// Package user defines the user entity, its permission bitfield and handle
// validation rules, and the Postgres-backed repository the rest of the
// application looks users up through.
package user
