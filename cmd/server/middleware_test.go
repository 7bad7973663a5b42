package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	h := authMiddleware("sekrit", okHandler())

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing token", "/papers", "", http.StatusUnauthorized},
		{"wrong token", "/papers", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/papers", "Bearer sekrit", http.StatusOK},
		{"health is open", "/health", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddlewareRejectionNamesEnvVar(t *testing.T) {
	h := authMiddleware("sekrit", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/papers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "PAPERLENS_API_KEY") {
		t.Errorf("rejection body %q should point at the key variable", rec.Body.String())
	}
}

func TestAuthMiddlewareDisabledWithoutKey(t *testing.T) {
	h := authMiddleware("", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/papers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d without configured key", rec.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	h := corsMiddleware("https://app.example", okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/papers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("allow-origin = %q", got)
	}
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	if strings.Contains(methods, "PUT") {
		t.Errorf("allow-methods %q advertises a method this API does not serve", methods)
	}
	for _, m := range []string{"GET", "POST", "DELETE"} {
		if !strings.Contains(methods, m) {
			t.Errorf("allow-methods %q missing %s", methods, m)
		}
	}
}

func TestCORSMiddlewareDisabledWithoutOrigins(t *testing.T) {
	h := corsMiddleware("", okHandler())
	req := httptest.NewRequest(http.MethodGet, "/papers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("CORS headers set without configured origins")
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	h := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("malformed xref table")
	}))
	req := httptest.NewRequest(http.MethodPost, "/papers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "internal server error") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestLogMiddlewareCapturesStatus(t *testing.T) {
	h := logMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	req := httptest.NewRequest(http.MethodGet, "/papers/missing.pdf", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, middleware must pass the handler status through", rec.Code)
	}
}
