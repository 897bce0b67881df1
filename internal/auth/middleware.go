// Package auth extracts bearer tokens from requests. Tokens are opaque
// session identifiers; validating one is a store lookup, so the
// middleware only enforces presence and hands the raw token onward via
// the request context.
package auth

import (
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey struct{}

// Middleware rejects requests without a bearer token, except on paths
// the skipper marks public.
type Middleware struct {
	skip func(r *http.Request) bool
}

// NewMiddleware constructs Middleware. A nil skipper protects every
// path.
func NewMiddleware(skip func(r *http.Request) bool) Middleware {
	return Middleware{skip: skip}
}

// Wrap attaches bearer-token handling to an http.Handler.
func (m Middleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skip != nil && m.skip(r) {
			next.ServeHTTP(w, r)
			return
		}
		token := TokenFromHeader(r)
		if token == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"errorMessage": "Missing or invalid Authorization token",
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
	})
}

// TokenFromHeader returns the token from "Authorization: Bearer <token>",
// or "" when the header is missing or malformed.
func TokenFromHeader(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}
