// Package cookie is a small manager for HTTP cookies with shared defaults.
//
// A Manager carries the default attributes (path, HttpOnly, SameSite and so
// on) that every cookie in the application should get; per-call options
// override them where a cookie needs different settings.
package cookie
