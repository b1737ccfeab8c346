package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client's IP address. Forwarded headers take
// precedence over the TCP peer: X-Forwarded-For (first valid hop), then
// X-Real-IP, then RemoteAddr. Invalid candidates are skipped rather than
// returned.
func FromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		for hop := range strings.SplitSeq(forwarded, ",") {
			if ip := normalize(hop); ip != "" {
				return ip
			}
		}
	}

	if ip := normalize(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr without a port, likely already a bare IP.
		return normalize(r.RemoteAddr)
	}
	return normalize(host)
}

// normalize validates a candidate and returns its canonical form, or ""
// when it does not parse as an IP.
func normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
