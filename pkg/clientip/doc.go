// Package clientip resolves the originating client address of an HTTP
// request. Behind a reverse proxy the TCP peer is the proxy, so forwarded
// headers are consulted first; every candidate is validated as a real IP
// before use so a forged header cannot smuggle arbitrary strings into
// throttle keys or logs.
package clientip
