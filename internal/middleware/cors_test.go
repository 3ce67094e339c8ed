package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS(t *testing.T) {
	methods := []string{http.MethodGet, http.MethodPost, http.MethodDelete}
	headers := []string{"Content-Type"}

	tests := []struct {
		name            string
		allowedOrigins  []string
		origin          string
		method          string
		wantStatus      int
		wantAllowOrigin string
		wantCredentials string
	}{
		{
			name:            "listed origin gets credentials",
			allowedOrigins:  []string{"http://example.com"},
			origin:          "http://example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "http://example.com",
			wantCredentials: "true",
		},
		{
			name:            "wildcard echoes origin without credentials",
			allowedOrigins:  []string{"*"},
			origin:          "http://any.example",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "http://any.example",
		},
		{
			name:            "listed origin keeps credentials alongside wildcard",
			allowedOrigins:  []string{"*", "http://example.com"},
			origin:          "http://example.com",
			method:          http.MethodGet,
			wantStatus:      http.StatusOK,
			wantAllowOrigin: "http://example.com",
			wantCredentials: "true",
		},
		{
			name:           "disallowed origin",
			allowedOrigins: []string{"http://example.com"},
			origin:         "http://evil.example",
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
		},
		{
			name:           "no origin header",
			allowedOrigins: []string{"*"},
			method:         http.MethodGet,
			wantStatus:     http.StatusOK,
		},
		{
			name:            "preflight short-circuits",
			allowedOrigins:  []string{"*"},
			origin:          "http://any.example",
			method:          http.MethodOptions,
			wantStatus:      http.StatusNoContent,
			wantAllowOrigin: "http://any.example",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			called := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})
			wrapped := CORS(tt.allowedOrigins, methods, headers)(handler)

			req := httptest.NewRequest(tt.method, "/products", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()

			// Act
			wrapped.ServeHTTP(rr, req)

			// Assert
			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantAllowOrigin)
			}
			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCredentials {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCredentials)
			}
			if got := rr.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST, DELETE" {
				t.Errorf("Allow-Methods = %q, want %q", got, "GET, POST, DELETE")
			}
			if got := rr.Header().Get("Vary"); got != "Origin" {
				t.Errorf("Vary = %q, want Origin", got)
			}
			if tt.method == http.MethodOptions && called {
				t.Error("preflight should not reach the handler")
			}
		})
	}
}
