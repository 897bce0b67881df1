package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrapRejectsMissingToken(t *testing.T) {
	m := NewMiddleware(nil)
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/waters", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "errorMessage") {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestWrapPassesTokenThroughContext(t *testing.T) {
	m := NewMiddleware(nil)
	var got string
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := FromContext(r.Context())
		if !ok {
			t.Fatal("expected token in context")
		}
		got = token
	}))

	req := httptest.NewRequest(http.MethodGet, "/waters", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if got != "abc123" {
		t.Fatalf("unexpected token %q", got)
	}
}

func TestWrapSkipsPublicPaths(t *testing.T) {
	m := NewMiddleware(func(r *http.Request) bool {
		return r.URL.Path == "/health"
	})
	reached := false
	handler := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if !reached {
		t.Fatal("expected public path to bypass auth")
	}
}

func TestTokenFromHeaderMalformed(t *testing.T) {
	for _, header := range []string{"", "abc123", "bearer abc123", "Basic abc123"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		if got := TokenFromHeader(req); got != "" {
			t.Fatalf("header %q: expected empty token, got %q", header, got)
		}
	}
}
