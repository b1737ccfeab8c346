// Package router assembles the HTTP surface of the quote engine: login and
// logout, user management, and infradmin-only listings. Handlers delegate all
// authentication decisions to modules/auth and all persistence to the stores
// they are constructed with, so the package itself stays a thin mapping from
// HTTP to domain calls.
package router
